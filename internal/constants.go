package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "barangay_access_token"
)
