// Package ciutil holds environment helpers shared by the server and the
// integration test setup: CI detection, test database discovery and masking
// of connection strings before they are logged.
package ciutil
