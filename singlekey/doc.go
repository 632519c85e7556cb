// Package singlekey provides a client for the SingleKey tenant-screening API.
//
// SingleKey runs credit and background checks on rental applicants. This
// package translates screening operations into authenticated HTTP calls and
// normalizes the service's error responses into a single typed error.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: the API client; every call goes through one dispatcher that
//     authenticates the request and classifies the outcome
//   - Transport: the HTTP exchange, replaceable for testing
//   - Types: request inputs and the loosely typed Result
//   - Errors: the Error type and its ErrorKind tag
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := singlekey.NewClient(
//		"your-api-token",
//		logger,
//		singlekey.WithEnvironment(singlekey.Sandbox),
//		singlekey.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	req := singlekey.NewScreeningRequest(landlord, tenant)
//	result, err := client.CreateScreening(ctx, req)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report, err := client.WaitForReport(ctx, result.PurchaseToken(), singlekey.WaitOptions{
//		Interval: 10 * time.Second,
//		OnStatus: func(u singlekey.StatusUpdate) { fmt.Println(u.Detail) },
//	})
//
// # Error Handling
//
// Every failed call returns a *Error. Discriminate on its Kind rather than
// on the message:
//
//   - KindAuthentication: the service answered 401
//   - KindNotFound: the service answered 404
//   - KindValidation: the service rejected the request; Errors lists each problem
//   - KindService: timeouts, connection failures and any other status
//
// The sentinels ErrAuthentication, ErrNotFound, ErrValidation and ErrService
// work with errors.Is. Every *Error matches ErrService.
//
//	var apiErr *singlekey.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == singlekey.KindValidation {
//		for _, e := range apiErr.Errors {
//			fmt.Println(" -", e)
//		}
//	}
//
// The service may answer 200 with "success": false and an "errors" list; this
// is reported as a validation error like any other rejection.
package singlekey
