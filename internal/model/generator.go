package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> policy default) and explicit false.
type GenerateRequest struct {
	Length           int   `json:"length"`
	Lowercase        *bool `json:"lowercase"`
	Uppercase        *bool `json:"uppercase"`
	Numbers          *bool `json:"numbers"`
	Symbols          *bool `json:"symbols"`
	ExcludeAmbiguous *bool `json:"exclude_ambiguous"`
	Chunked          *bool `json:"chunked"`
	Count            int   `json:"count"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Passwords []PasswordResponse `json:"passwords"`
}

// PasswordResponse is one generated password with its strength.
// Password is the display form; Raw has chunk delimiters removed and is what
// should be copied or stored.
type PasswordResponse struct {
	Password string           `json:"password"`
	Raw      string           `json:"raw"`
	Length   int              `json:"length"`
	Strength StrengthResponse `json:"strength"`
}

// AssessRequest asks for the strength of an existing password. The class
// flags describe the policy that produced it; missing flags count as off.
type AssessRequest struct {
	Password  string `json:"password"`
	Lowercase bool   `json:"lowercase"`
	Uppercase bool   `json:"uppercase"`
	Numbers   bool   `json:"numbers"`
	Symbols   bool   `json:"symbols"`
	Chunked   bool   `json:"chunked"`
}

// AssessResponse represents a strength assessment response.
type AssessResponse struct {
	Strength StrengthResponse `json:"strength"`
}

// StrengthResponse carries the heuristic score and the zxcvbn estimate.
type StrengthResponse struct {
	Score    float64       `json:"score"`
	Label    string        `json:"label"`
	Meter    int           `json:"meter"`
	Severity string        `json:"severity"`
	Crack    CrackResponse `json:"crack"`
}

// CrackResponse is the zxcvbn guessability estimate.
type CrackResponse struct {
	Score     int     `json:"score"`
	Entropy   float64 `json:"entropy"`
	CrackTime string  `json:"crack_time"`
}
