package dto

type DoctorListQuery struct {
	Query          string
	Specialization string
}

type DoctorListItemResponse struct {
	ID              string   `json:"id"`
	DoctorID        string   `json:"doctor_id"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	Experience      string   `json:"experience"`
	Rating          float64  `json:"rating"`
	TotalReviews    int      `json:"total_reviews"`
	RatingDisplay   string   `json:"rating_display"`
	ConsultationFee string   `json:"consultation_fee"`
	Address         string   `json:"address"`
	About           string   `json:"about"`
	Availability    Hours    `json:"availability"`
	NextAvailable   string   `json:"next_available"`
	IsAvailable     bool     `json:"is_available"`
	Languages       []string `json:"languages"`
	ProfileImage    *string  `json:"profile_image"`
	ThumbnailURL    *string  `json:"thumbnail_url,omitempty"`
}

type Hours struct {
	Weekdays *string `json:"weekdays"`
	Saturday *string `json:"saturday"`
	Sunday   *string `json:"sunday"`
}

type DoctorListResponse struct {
	Doctors         []DoctorListItemResponse `json:"doctors"`
	Total           int                      `json:"total"`
	Specializations []string                 `json:"specializations"`
}
