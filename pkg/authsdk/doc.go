/*
Package authsdk provides a client SDK for the CowSalt Pro credential service.

# Overview

The package is organized around two types:

  - Client: unauthenticated operations, health probes, and Login
  - Session: authenticated operations bound to one user's bearer token

Create a Client for the local service and log in to obtain a Session:

	client := authsdk.NewClient("http://127.0.0.1:8321")

	session, err := client.Login(ctx, username, password)
	if err != nil {
		// authsdk.ErrorCodeInvalidCredentials covers both unknown usernames
		// and wrong passwords.
	}

	if session.MustChangePassword {
		// The account cannot use other endpoints until the password is
		// rotated, e.g. the seeded default admin.
		err = session.ChangePassword(ctx, oldPassword, newPassword)
	}

Failed requests return *APIError; match on its Code field:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeForbidden {
		// insufficient privileges
	}

The service keeps a single active session per user. A later Login from
anywhere replaces the token, and requests on the old Session start failing
with ErrorCodeInvalidToken.
*/
package authsdk
