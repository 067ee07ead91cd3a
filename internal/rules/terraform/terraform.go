// Package terraform is the Terraform/HCL rule pack.
package terraform

import (
	"regexp"
	"strings"

	"github.com/codesentinel/codesentinel/internal/parsers"
	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

func isTerraformFile(path string) bool {
	return strings.HasSuffix(path, ".tf") || strings.HasSuffix(path, ".tfvars") ||
		strings.HasSuffix(path, ".hcl")
}

func blockExcerpt(content string) string {
	head := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		head = content[:i]
	}
	return strings.TrimSpace(head) + " { ... }"
}

var reACLPrivate = regexp.MustCompile(`(?i)acl\s*=\s*"(private|bucket-owner-full-control)"`)

// s3ACLRule (TFC001) flags aws_s3_bucket resources missing a private ACL.
type s3ACLRule struct{ rules.Meta }

func (r s3ACLRule) Apply(path, text string) ([]types.Finding, error) {
	if !isTerraformFile(path) {
		return nil, nil
	}
	var out []types.Finding
	for _, block := range parsers.FindHCLBlocks(text, "resource", "aws_s3_bucket") {
		if reACLPrivate.MatchString(block.Content) {
			continue
		}
		out = append(out, types.Finding{
			RuleID:     r.RuleID,
			Path:       path,
			Line:       block.Line,
			Severity:   r.Sev,
			Excerpt:    blockExcerpt(block.Content),
			Confidence: 0.95,
			Category:   r.Cat,
			Tags:       r.Tags(),
			Precedence: r.Prec,
			Message:    r.Desc,
		})
	}
	return out, nil
}

var (
	reBackendS3    = regexp.MustCompile(`(?i)backend\s+"s3"`)
	reEncryptTrue  = regexp.MustCompile(`(?i)encrypt\s*=\s*true`)
	reEncryptFalse = regexp.MustCompile(`(?i)encrypt\s*=\s*false`)
)

// remoteStateRule (TFC002) flags S3 backend blocks without encrypt = true.
type remoteStateRule struct{ rules.Meta }

func (r remoteStateRule) Apply(path, text string) ([]types.Finding, error) {
	if !isTerraformFile(path) {
		return nil, nil
	}
	var out []types.Finding
	for _, block := range parsers.FindHCLBlocks(text, "backend", "") {
		if !reBackendS3.MatchString(block.Content) {
			continue
		}
		if reEncryptTrue.MatchString(block.Content) && !reEncryptFalse.MatchString(block.Content) {
			continue
		}
		out = append(out, types.Finding{
			RuleID:     r.RuleID,
			Path:       path,
			Line:       block.Line,
			Severity:   r.Sev,
			Excerpt:    blockExcerpt(block.Content),
			Confidence: 0.98,
			Category:   r.Cat,
			Tags:       r.Tags(),
			Precedence: r.Prec,
			Message:    r.Desc,
		})
	}
	return out, nil
}

// Rules returns fresh instances of every rule in the pack.
func Rules() []rules.Rule {
	return []rules.Rule{
		s3ACLRule{rules.Meta{
			RuleID:   "TFC001",
			Desc:     "aws_s3_bucket resource lacks a private ACL",
			Sev:      types.SevHigh,
			Prec:     65,
			Cat:      "iac.config.aws",
			BaseTags: []string{"terraform", "aws", "s3", "public-exposure"},
		}},
		remoteStateRule{rules.Meta{
			RuleID:   "TFC002",
			Desc:     "S3 backend remote state is not encrypted",
			Sev:      types.SevCritical,
			Prec:     65,
			Cat:      "iac.config.terraform",
			BaseTags: []string{"terraform", "s3", "state", "encryption"},
		}},
	}
}

func init() {
	rules.Register("terraform", Rules()...)
}
