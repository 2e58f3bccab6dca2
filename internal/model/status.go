package model

// SystemStatus represents the status object returned by the backend status endpoint
type SystemStatus struct {
	PrimarySite SiteStatus `json:"primarySite"`
	DRSite      SiteStatus `json:"drSite"`
}

// SiteStatus represents the health of a single site
type SiteStatus struct {
	Region         string `json:"region"`         // Display label, e.g. "us-east-1"
	DatabaseStatus string `json:"databaseStatus"` // Free-form health label, e.g. "healthy"
}
