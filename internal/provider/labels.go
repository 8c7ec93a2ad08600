package provider

import "strings"

// NormalizeLabels splits freeform label text on newlines and commas, trims
// each token and drops empty ones. Order is kept and duplicates are not
// removed: the backend treats the list as given.
func NormalizeLabels(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})
	labels := make([]string, 0, len(fields))
	for _, field := range fields {
		if label := strings.TrimSpace(field); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// JoinLabels renders labels as editable text, one per line.
func JoinLabels(labels []string) string {
	return strings.Join(labels, "\n")
}
