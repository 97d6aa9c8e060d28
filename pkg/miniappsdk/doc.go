/*
Package miniappsdk is a Go client for the JSON API of the MB mini-app web front.

# Overview

Every SDKClient carries its own cookie jar, so one client is one tab: the
first request mints the tab cookie and every later request of the same client
is answered for that tab. Use NewTab to open another tab against the same
server.

	client := miniappsdk.NewSDKClient("https://miniapp.example.com")

	// Hand the launch URL the banking app opened to the server.
	res, err := client.Verify(ctx, "https://miniapp.example.com/#MBAPP?loginToken=...")
	if err != nil {
		return err
	}
	if res.Status != miniappsdk.StatusVerified {
		fmt.Println(res.Message)
	}

	// Pay for a package and hand the transaction to the host app.
	payment, err := client.CreatePayment(ctx, miniappsdk.CreatePaymentRequest{PackageID: id})
	handoff, err := client.Handoff(ctx, payment.TransactionID)

# Errors

Non-2xx answers are returned as *APIError carrying the HTTP status and the
{error, error_description} body. The same values are used by the server to
write its errors, so callers can compare codes:

	var apiErr *miniappsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == miniappsdk.ErrorCodeLoginRequired {
		// the tab has no session
	}
*/
package miniappsdk
