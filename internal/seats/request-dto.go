package seats

type HoldRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Seats  []string `json:"seats"`
}
