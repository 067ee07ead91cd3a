package engine

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/codesentinel/codesentinel/internal/classify"
	"github.com/codesentinel/codesentinel/internal/types"
)

// baseRiskScores anchors the 1..10 risk scale per severity.
var baseRiskScores = map[types.Severity]float64{
	types.SevCritical: 9.0,
	types.SevHigh:     7.5,
	types.SevMedium:   5.5,
	types.SevLow:      3.0,
	types.SevInfo:     1.5,
}

// providerRiskAdjustments shifts the score by how exploitable a leaked token
// of that provider type usually is.
var providerRiskAdjustments = map[classify.TokenType]float64{
	classify.AWSSecretKey:       1.0,
	classify.AWSAccessKey:       0.5,
	classify.GCPServiceAccount:  1.0,
	classify.PrivateKey:         1.0,
	classify.StripeAPIKeyLive:   0.8,
	classify.StripeAPIKeyTest:   -2.0,
	classify.GitHubToken:        0.5,
	classify.SlackBotToken:      0.3,
	classify.SlackUserToken:     0.3,
	classify.GCPOAuthToken:      0.5,
	classify.AzureClientSecret:  0.3,
	classify.JWT:                -0.5,
	classify.GenericHighEntropy: -1.0,
}

// languageRiskAdjustments nudges the score by where the finding lives; shell
// and infrastructure files tend to hold live credentials, test fixtures and
// markup rarely do.
var languageRiskAdjustments = map[string]float64{
	"Bash":       0.8,
	"Docker":     0.7,
	"Terraform":  0.6,
	"YAML":       0.4,
	"INI":        0.4,
	"TOML":       0.4,
	"JavaScript": 0.3,
	"TypeScript": 0.3,
	"Python":     0.2,
	"Go":         0.2,
	"JSON":       0.2,
	"Markdown":   -1.0,
	"plaintext":  -0.5,
}

var (
	testishTags = map[string]bool{"test": true, "staging": true, "development": true, "sandbox": true}
	prodishTags = map[string]bool{"live": true, "production": true, "prod": true}
)

// DetectLanguage names the language of a file from its path, falling back to
// content analysis. Empty when nothing matches.
func DetectLanguage(path, text string) string {
	lexer := lexers.Match(path)
	if lexer == nil && text != "" {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// EnhancedRiskScore computes a 1..10 risk score: severity base, provider
// adjustment from classifying the token value, tag adjustments for test vs
// production context, language adjustment, and a confidence factor. Unknown
// severities score from the middle of the scale.
func EnhancedRiskScore(base types.Severity, tokenValue string, tags []string, language string, confidence float64) float64 {
	score, ok := baseRiskScores[base]
	if !ok {
		score = 5.0
	}

	if tokenValue != "" {
		if tt, classified := classify.Token(tokenValue); classified {
			score += providerRiskAdjustments[tt]
		}
	}

	for _, tag := range tags {
		t := strings.ToLower(tag)
		if testishTags[t] {
			score -= 1.5
			break
		}
		if prodishTags[t] {
			score += 1.0
			break
		}
	}

	score += languageRiskAdjustments[language]

	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	score *= 0.5 + 0.5*confidence

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// ProviderAwareSeverity shifts a severity one level down for test/staging
// contexts and one level up for production contexts, clamped to [low,
// critical]. Info findings are left alone.
func ProviderAwareSeverity(base types.Severity, tags []string) types.Severity {
	rank := base.Rank()
	if rank <= 0 {
		return base
	}
	for _, tag := range tags {
		t := strings.ToLower(tag)
		if testishTags[t] {
			rank--
			break
		}
		if prodishTags[t] {
			rank++
			break
		}
	}
	if rank < types.SevLow.Rank() {
		rank = types.SevLow.Rank()
	}
	if rank > types.SevCritical.Rank() {
		rank = types.SevCritical.Rank()
	}
	return types.FromRank(rank)
}
