package venues

type DeleteVenueResponse struct {
	Message string `json:"message"`
}
