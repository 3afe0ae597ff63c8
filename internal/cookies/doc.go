// Package cookies reads cookie data out of browser stores and interchange
// files and converts it into snapshot records for backup. Supported inputs
// are Firefox (moz_cookies SQLite), Chrome (cookies SQLite, unencrypted
// values only), Netscape cookies.txt, CSV exports and line-oriented text
// with an embedded JSON cookie array.
//
// Cookie values are sensitive. They are never logged or formatted into
// error messages; only names and domains may appear in diagnostics.
package cookies
