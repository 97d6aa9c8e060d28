/*
Package mbsdk is a client for the mini-app backend that sits behind the MB Bank
webview integration.

# Overview

The backend owns every trust decision. This package only forwards requests and
normalizes the loosely-shaped JSON the backend answers with:

	client := mbsdk.NewClient("https://api.example.com")

	// Exchange the one-time login token for a backend session
	info, err := client.VerifyToken(ctx, loginToken)

	// Pricing catalog
	packages, err := client.ListPackages(ctx, "standard")

	// Payment transactions
	txn, err := client.CreateTransaction(ctx, mbsdk.CreateTransactionRequest{...})
	txn, err = client.GetTransaction(ctx, txn.TransactionID)

# Token Exchange

The login token is posted form-encoded under TokenField (default "token") and
again under every name in TokenAliases, since deployed backends disagree on the
field name. A response is accepted when a session id can be found under one of
sessionId, sessionID, accessToken or token, either at the root, under a "data"
wrapper, or inside a JSON document that was itself encoded as a JSON string.

The exchange is never retried: the token is single-use on the backend side.

# Error Handling

  - *APIError: the backend answered with a non-2xx status, or with success:false.
  - ErrUnexpectedResponse: a success-shaped answer without the required fields.
  - ErrNetwork: the backend could not be reached or did not answer in time.

Context cancellation is preserved in the error chain, so callers can tell a
cancelled exchange apart from a failed one with errors.Is(err, context.Canceled).

Idempotent reads (packages, transaction lookup) are retried with exponential
backoff on network errors and 5xx answers.
*/
package mbsdk
