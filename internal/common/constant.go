// Package common contains shared constants and sentinel errors used across
// VoiceVault components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the device token
// on requests to the metadata service.
const AuthorizationHeaderName = "Authorization"

// LocalUserID is the reserved owner id for recordings captured before any
// account is linked. Rows with this owner are local-only until re-owned.
const LocalUserID = "local"
