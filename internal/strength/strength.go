// Package strength scores passwords for display.
//
// Assess is a presentation heuristic built from length, character variety and
// uniqueness. It is deterministic so that it can be tested, and it carries no
// security guarantee: it is not an entropy measurement. Crack gives a separate
// zxcvbn guess estimate that never feeds into the Assess label.
package strength

import (
	"math"

	zxcvbn "github.com/ccojocar/zxcvbn-go"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

// Label is the qualitative band of an Assessment.
type Label string

const (
	LabelEmpty  Label = "Empty"
	LabelWeak   Label = "Weak"
	LabelFair   Label = "Fair"
	LabelGood   Label = "Good"
	LabelStrong Label = "Strong"
)

// Severity is the colour band a UI should use for a Label.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityOK      Severity = "ok"
	SeveritySuccess Severity = "success"
)

const (
	maxScore = 10.0
	// singleClassCap bounds the score of passwords drawn from one class.
	singleClassCap = 3.5
	// minMeter keeps an empty meter visible.
	minMeter = 6

	// maxCheckedLen limits how much of a password zxcvbn sees. Its cost grows
	// quickly with length.
	maxCheckedLen = 50
)

// Assessment is the heuristic score for a password.
type Assessment struct {
	Score float64
	Label Label
}

// Assess scores password, which must already be stripped of chunk delimiters,
// against the policy that produced it.
func Assess(password string, p crypto.Policy) Assessment {
	if password == "" {
		return Assessment{Score: 0, Label: LabelEmpty}
	}

	runes := []rune(password)
	lengthScore := math.Min(maxScore, math.Floor(float64(len(runes))/2))
	varietyScore := float64(variety(runes)) * 2.5
	uniqueScore := math.Min(maxScore, float64(distinct(runes))/2)

	score := math.Min(maxScore, math.Round((lengthScore+varietyScore+uniqueScore)/3.2*10)/10)
	if p.EnabledClasses() <= 1 {
		score = math.Min(score, singleClassCap)
	}

	return Assessment{Score: score, Label: labelFor(score)}
}

// Meter returns the width of a strength bar in percent.
func (a Assessment) Meter() int {
	w := int(math.Round(a.Score / maxScore * 100))
	return max(minMeter, min(100, w))
}

// Severity maps the label to a colour band.
func (a Assessment) Severity() Severity {
	switch a.Label {
	case LabelStrong:
		return SeveritySuccess
	case LabelGood:
		return SeverityOK
	case LabelFair:
		return SeverityWarning
	default:
		return SeverityDanger
	}
}

func labelFor(score float64) Label {
	switch {
	case score >= 8:
		return LabelStrong
	case score >= 6:
		return LabelGood
	case score >= 4.5:
		return LabelFair
	default:
		return LabelWeak
	}
}

// variety counts how many of lowercase, uppercase, digit and other appear.
func variety(runes []rune) int {
	var hasL, hasU, hasD, hasO bool
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z':
			hasL = true
		case r >= 'A' && r <= 'Z':
			hasU = true
		case r >= '0' && r <= '9':
			hasD = true
		default:
			hasO = true
		}
	}
	n := 0
	for _, has := range []bool{hasL, hasU, hasD, hasO} {
		if has {
			n++
		}
	}
	return n
}

func distinct(runes []rune) int {
	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// CrackEstimate is a zxcvbn guessability estimate.
type CrackEstimate struct {
	Score     int     // 0 (too guessable) to 4 (very unguessable)
	Entropy   float64 // bits
	CrackTime string
}

// Crack estimates how guessable password is. Only the first 50 characters
// are examined.
func Crack(password string) CrackEstimate {
	if password == "" {
		return CrackEstimate{}
	}
	runes := []rune(password)
	if len(runes) > maxCheckedLen {
		runes = runes[:maxCheckedLen]
	}
	res := zxcvbn.PasswordStrength(string(runes), nil)
	return CrackEstimate{
		Score:     res.Score,
		Entropy:   res.Entropy,
		CrackTime: res.CrackTimeDisplay,
	}
}

