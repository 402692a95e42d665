package generate

import (
	"regexp"
	"strings"
)

var (
	fencePattern      = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:\w+\s*)?\n(.*?)\n\s*` + "```" + `\s*$`)
	fileMarkerPattern = regexp.MustCompile("(?m)^=== FILE:\\s*`?(.*?)`?\\s*===$")
)

// StripCodeFences removes a markdown code fence wrapping the whole response.
// Fences inside the content are left untouched; only a response that is one
// single fenced block gets unwrapped.
func StripCodeFences(text string) string {
	if text == "" {
		return ""
	}
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ParseFiles splits a multi-file LLM response on "=== FILE: path ===" markers
// into path/content pairs, fence-stripping each block. Paths are normalized
// to forward slashes; entries with an empty path or empty content are
// dropped. Order follows the response.
//
// A response with no markers at all falls back to a single "output.txt" so
// the caller still has something to inspect.
func ParseFiles(response string) []ProjectFile {
	markers := fileMarkerPattern.FindAllStringSubmatchIndex(response, -1)
	if len(markers) == 0 {
		content := StripCodeFences(response)
		if content == "" {
			return nil
		}
		return []ProjectFile{{Path: "output.txt", Content: content}}
	}

	var files []ProjectFile
	for i, m := range markers {
		path := strings.TrimSpace(response[m[2]:m[3]])
		start := m[1]
		end := len(response)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		content := StripCodeFences(response[start:end])
		if path == "" || content == "" {
			continue
		}
		files = append(files, ProjectFile{
			Path:    strings.ReplaceAll(path, "\\", "/"),
			Content: content,
		})
	}
	return files
}
