// internal/security/scanner.go
package security

import (
	"regexp"
	"strconv"
	"strings"
)

// Severity levels
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// Finding is a line added by the diff that looks like a secret
type Finding struct {
	Type        string
	File        string
	LineContent string
	LineNumber  int
	Severity    string
	Suggestion  string
}

type rule struct {
	name       string
	pattern    *regexp.Regexp
	severity   string
	suggestion string
}

// Scanner detects sensitive data patterns in added lines
type Scanner struct {
	rules []rule
}

var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// NewScanner creates a scanner with default patterns
func NewScanner() *Scanner {
	return &Scanner{
		rules: []rule{
			{
				name:       "Private Key",
				pattern:    regexp.MustCompile(`-----BEGIN( RSA| EC| OPENSSH| DSA)? PRIVATE KEY-----`),
				severity:   SeverityHigh,
				suggestion: "Remove private keys from code. Store in a secure location outside the repository",
			},
			{
				name:       "AWS Key",
				pattern:    regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
				severity:   SeverityHigh,
				suggestion: "Store AWS credentials using environment variables or AWS credential providers",
			},
			{
				name:       "Generic API Key",
				pattern:    regexp.MustCompile(`(?i)(api|app|access)[_-]?(key|token|secret)[\s]*[=:][\s]*['"][0-9a-zA-Z._\-]{16,}['"]`),
				severity:   SeverityHigh,
				suggestion: "Move API keys to environment variables or a secure vault",
			},
			{
				name:       "Bearer Token",
				pattern:    regexp.MustCompile(`(?i)bearer\s+[0-9a-zA-Z._\-]{20,}`),
				severity:   SeverityHigh,
				suggestion: "Do not commit request headers with live tokens",
			},
			{
				name:       "Password",
				pattern:    regexp.MustCompile(`(?i)pass(word|wd)?[\s]*[=:][\s]*['"][^'"]{8,}['"]`),
				severity:   SeverityMedium,
				suggestion: "Never hardcode passwords. Use configuration management or environment variables",
			},
			{
				name:       "Connection String",
				pattern:    regexp.MustCompile(`(?i)(mongodb|redis|postgres|postgresql|mysql|amqp)://[^\s'"]+:[^\s'"]+@[^\s'"]+`),
				severity:   SeverityMedium,
				suggestion: "Move connection strings to environment variables or configuration files",
			},
		},
	}
}

// ScanChanges scans the lines a unified diff adds
func (s *Scanner) ScanChanges(diff string) []Finding {
	var findings []Finding
	var file string
	line := 0

	for _, raw := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(raw, "+++ "):
			file = strings.TrimPrefix(strings.TrimPrefix(raw, "+++ "), "b/")
			continue
		case strings.HasPrefix(raw, "@@"):
			if m := hunkHeader.FindStringSubmatch(raw); m != nil {
				n, _ := strconv.Atoi(m[1])
				line = n
			}
			continue
		case strings.HasPrefix(raw, "-"), strings.HasPrefix(raw, `\`):
			continue
		case !strings.HasPrefix(raw, "+"):
			line++
			continue
		}

		added := strings.TrimPrefix(raw, "+")
		for _, r := range s.rules {
			if r.pattern.MatchString(added) {
				findings = append(findings, Finding{
					Type:        r.name,
					File:        file,
					LineContent: added,
					LineNumber:  line,
					Severity:    r.severity,
					Suggestion:  r.suggestion,
				})
			}
		}
		line++
	}

	return findings
}
