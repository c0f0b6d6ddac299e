// Package auth implements an email-OTP authentication core: registration,
// one-time-password verification, login, session issuance, and logout over a
// flat persisted record collection.
//
// Lifecycle:
//   - Register creates an unverified record and mails a 6-digit code with a
//     20 minute window. ResendOTP reissues it with a 5 minute window while
//     the account stays unverified.
//   - VerifyRegistrationOTP flips the record to verified (one-way), clears
//     the code, and issues an opaque session token. Login re-checks the
//     password and issues a fresh 10 minute code; VerifyLoginOTP trades it
//     for a fresh session. Logout clears both transient pairs and is
//     idempotent.
//   - Sessions are opaque bearer tokens validated lazily against the store;
//     expiry is checked on access, never swept, and never extended.
//
// The Auther owns every business-rule outcome. Stores (store/jsonstore,
// store/bunstore) only persist the collection, the Notifier only delivers
// mail, and the HTTP controller only translates payloads and statuses.
package auth
