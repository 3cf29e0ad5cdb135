package domain

import "time"

// OriginSource identifies where the active search origin came from.
type OriginSource string

const (
	OriginManual  OriginSource = "manual"
	OriginDevice  OriginSource = "device"
	OriginDefault OriginSource = "default"
)

// SearchOrigin is the coordinate pair driving proximity bias and distance.
// Version increases whenever the effective origin changes. Autocomplete
// compares it before applying a response and reissues requests started
// against an older origin.
type SearchOrigin struct {
	Source      OriginSource `json:"source"`
	Coordinates Coordinates  `json:"coordinates"`
	Label       string       `json:"label,omitempty"`
	Version     uint64       `json:"version"`
}

// OriginChanged is published whenever the active origin is replaced.
type OriginChanged struct {
	SessionID string       `json:"session_id"`
	Origin    SearchOrigin `json:"origin"`
	At        time.Time    `json:"at"`
}

// PermissionStatus is the result of a foreground location permission request.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)
