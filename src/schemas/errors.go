package schemas

type ErrorResponse struct {
	Error string `json:"error"`
}
