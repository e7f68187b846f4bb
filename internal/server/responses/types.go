// Package responses defines the JSON payload types served by the HTTP API.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
	Uptime    float64      `json:"uptime"`
	Paths     []PathStatus `json:"paths"`
}

// PathStatus reports whether a configured path currently exists on disk.
type PathStatus struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// VerifyResponse represents a roster lookup result.
type VerifyResponse struct {
	Valid             bool   `json:"valid"`
	Name              string `json:"name"`
	StudentID         string `json:"student_id,omitempty"`
	MemberID          string `json:"member_id,omitempty"`
	Email             string `json:"email,omitempty"`
	Course            string `json:"course,omitempty"`
	Position          string `json:"position,omitempty"`
	CertificateID     string `json:"certificate_id"`
	CertificateExists bool   `json:"certificate_exists"`
}

// GenerateAllResponse represents the batch generation API response.
type GenerateAllResponse struct {
	Status       string    `json:"status"`
	Total        int       `json:"total"`
	Generated    int       `json:"generated"`
	Skipped      int       `json:"skipped"`
	GeneratedIDs []string  `json:"generated_ids"`
	SkippedIDs   []string  `json:"skipped_ids"`
	FailedIDs    []string  `json:"failed_ids,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// StatusResponse represents the admin status endpoint response.
type StatusResponse struct {
	Status             string         `json:"status"`
	Uptime             float64        `json:"uptime"`
	StartTime          time.Time      `json:"start_time"`
	CertificatesOnDisk int            `json:"certificates_on_disk"`
	RosterSize         int            `json:"roster_size"`
	ManagementSize     int            `json:"management_size"`
	IssuanceCounts     map[string]int `json:"issuance_counts,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}
