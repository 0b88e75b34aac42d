package dto

// Request DTOs

type DirectorySearchRequest struct {
	Query string `json:"query" validate:"max=500"`
}

// Response DTOs

type DoctorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

type DirectoryViewResponse struct {
	SessionID    string           `json:"session_id"`
	Query        string           `json:"query"`
	Active       bool             `json:"active"`
	NoMatchFound bool             `json:"no_match_found"`
	Banner       string           `json:"banner,omitempty"`
	Doctors      []DoctorResponse `json:"doctors"`
	Total        int              `json:"total"`
}
