package service

import (
	"errors"
	"fmt"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/strength"
)

const (
	MaxCount          = 20
	MaxAssessedLength = 256
)

var (
	ErrLengthTooShort   = fmt.Errorf("password length must be at least %d", crypto.MinLength)
	ErrLengthTooLong    = fmt.Errorf("password length must be at most %d", crypto.MaxLength)
	ErrNoCharacterTypes = errors.New("select at least one character set")
	ErrCountOutOfRange  = fmt.Errorf("count must be between 1 and %d", MaxCount)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d characters", MaxAssessedLength)
)

// GeneratorService turns requests into policies and scores the results.
type GeneratorService struct {
	generator *crypto.Generator
}

// NewGeneratorService creates a GeneratorService backed by crypto/rand.
func NewGeneratorService() *GeneratorService {
	return NewGeneratorServiceWith(crypto.NewGenerator(nil))
}

// NewGeneratorServiceWith creates a GeneratorService around g.
func NewGeneratorServiceWith(g *crypto.Generator) *GeneratorService {
	return &GeneratorService{generator: g}
}

// PolicyFromRequest fills unset fields of req from crypto.DefaultPolicy.
func PolicyFromRequest(req model.GenerateRequest) crypto.Policy {
	def := crypto.DefaultPolicy()
	p := crypto.Policy{
		Length:           req.Length,
		Lowercase:        boolOrDefault(req.Lowercase, def.Lowercase),
		Uppercase:        boolOrDefault(req.Uppercase, def.Uppercase),
		Numbers:          boolOrDefault(req.Numbers, def.Numbers),
		Symbols:          boolOrDefault(req.Symbols, def.Symbols),
		ExcludeAmbiguous: boolOrDefault(req.ExcludeAmbiguous, def.ExcludeAmbiguous),
		Chunked:          boolOrDefault(req.Chunked, def.Chunked),
	}
	if p.Length == 0 {
		p.Length = def.Length
	}
	return p
}

// ValidatePolicy checks the bounds a caller enforces before generating.
func ValidatePolicy(p crypto.Policy) error {
	if p.Length < crypto.MinLength {
		return ErrLengthTooShort
	}
	if p.Length > crypto.MaxLength {
		return ErrLengthTooLong
	}
	if crypto.Alphabet(p) == "" {
		return ErrNoCharacterTypes
	}
	return nil
}

// Generate produces one or more passwords based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	policy := PolicyFromRequest(req)
	if err := ValidatePolicy(policy); err != nil {
		return model.GenerateResponse{}, err
	}

	count := req.Count
	if count == 0 {
		count = 1
	}
	if count < 1 || count > MaxCount {
		return model.GenerateResponse{}, ErrCountOutOfRange
	}

	resp := model.GenerateResponse{Passwords: make([]model.PasswordResponse, 0, count)}
	for i := 0; i < count; i++ {
		password, err := s.generator.Generate(policy)
		if err != nil {
			return model.GenerateResponse{}, fmt.Errorf("generating password: %w", err)
		}
		if password == "" {
			return model.GenerateResponse{}, ErrNoCharacterTypes
		}

		raw := crypto.Unchunk(password)
		resp.Passwords = append(resp.Passwords, model.PasswordResponse{
			Password: password,
			Raw:      raw,
			Length:   len(raw),
			Strength: strengthResponse(raw, policy),
		})
	}

	return resp, nil
}

// Assess scores an existing password. Chunk delimiters are stripped first
// when the request says the password was chunked.
func (s *GeneratorService) Assess(req model.AssessRequest) (model.AssessResponse, error) {
	password := req.Password
	if req.Chunked {
		password = crypto.Unchunk(password)
	}
	if len([]rune(password)) > MaxAssessedLength {
		return model.AssessResponse{}, ErrPasswordTooLong
	}

	policy := crypto.Policy{
		Length:    len([]rune(password)),
		Lowercase: req.Lowercase,
		Uppercase: req.Uppercase,
		Numbers:   req.Numbers,
		Symbols:   req.Symbols,
		Chunked:   req.Chunked,
	}

	return model.AssessResponse{Strength: strengthResponse(password, policy)}, nil
}

// IsValidationError reports whether err was caused by the caller's input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLengthTooShort) ||
		errors.Is(err, ErrLengthTooLong) ||
		errors.Is(err, ErrNoCharacterTypes) ||
		errors.Is(err, ErrCountOutOfRange) ||
		errors.Is(err, ErrPasswordTooLong)
}

func strengthResponse(raw string, p crypto.Policy) model.StrengthResponse {
	a := strength.Assess(raw, p)
	c := strength.Crack(raw)
	return model.StrengthResponse{
		Score:    a.Score,
		Label:    string(a.Label),
		Meter:    a.Meter(),
		Severity: string(a.Severity()),
		Crack: model.CrackResponse{
			Score:     c.Score,
			Entropy:   c.Entropy,
			CrackTime: c.CrackTime,
		},
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
