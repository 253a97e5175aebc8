package mail

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// frontmatter is the YAML header block of an entry file. All fields are
// optional; absent keys fall back to the defaults applied in ParseFile.
type frontmatter struct {
	From           string `yaml:"from"`
	To             string `yaml:"to"`
	CC             string `yaml:"cc"`
	Subject        string `yaml:"subject"`
	Status         string `yaml:"status"`
	Date           string `yaml:"date"`
	SentAt         string `yaml:"sent_at"`
	HasAttachments bool   `yaml:"has_attachments"`
}

// ParseFile reads one entry file. A file whose header block is present but
// not valid YAML is an error; callers scanning a directory skip such files.
// A file with no header block at all is a body-only entry with default
// metadata.
func ParseFile(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("reading entry: %w", err)
	}

	meta, body := splitFrontmatter(string(data))

	var fm frontmatter
	if meta != "" {
		if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
			return Entry{}, fmt.Errorf("parsing entry header: %w", err)
		}
	}

	if fm.Subject == "" {
		fm.Subject = "(no subject)"
	}
	if fm.Status == "" {
		fm.Status = "unknown"
	}

	display, sortable := resolveDate(fm.Date, fm.SentAt, path)

	return Entry{
		Path:           path,
		From:           DisplayName(fm.From),
		To:             DisplayName(fm.To),
		CC:             fm.CC,
		Subject:        fm.Subject,
		Status:         fm.Status,
		Date:           display,
		SortDate:       sortable,
		Body:           body,
		HasAttachments: fm.HasAttachments,
	}, nil
}

// splitFrontmatter separates the YAML header from the body. The header is
// delimited by `---` lines starting at the first line; without an opening
// or closing delimiter the whole content is body.
func splitFrontmatter(content string) (meta, body string) {
	rest, ok := strings.CutPrefix(content, frontmatterDelim+"\n")
	if !ok {
		rest, ok = strings.CutPrefix(content, frontmatterDelim+"\r\n")
	}
	if !ok {
		return "", content
	}
	for _, close := range []string{"\n" + frontmatterDelim + "\n", "\n" + frontmatterDelim + "\r\n"} {
		if idx := strings.Index(rest, close); idx >= 0 {
			return rest[:idx], rest[idx+len(close):]
		}
	}
	// Header closed by a trailing delimiter with no body after it.
	if trimmed, ok := strings.CutSuffix(rest, "\n"+frontmatterDelim); ok {
		return trimmed, ""
	}
	if trimmed, ok := strings.CutSuffix(rest, "\n"+frontmatterDelim+"\r"); ok {
		return trimmed, ""
	}
	return "", content
}
