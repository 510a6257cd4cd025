// Package catalog resolves free-form model tokens (names, aliases, numeric
// indices, help keywords) to canonical Perplexity model identifiers.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quocvuong92/px-cli/internal/constants"
)

// maxHelpPrompts bounds the interactive re-prompt loop after a help keyword.
const maxHelpPrompts = 3

// aliasIndex maps lowercase shorthand tokens to catalog positions.
var aliasIndex = map[string]int{
	"s": 0, "so": 0, "small": 0,
	"l": 1, "lo": 1, "long": 1, "pro": 1,
	"r": 2, "re": 2, "reson": 2, "reasoning": 2,
	"rp": 3, "r-pro": 3, "rpro": 3, "reasoning-pro": 3,
	"d": 4, "deep": 4,
}

// helpKeywords trigger printing the catalog and re-prompting for a token.
var helpKeywords = map[string]bool{
	"?": true, "h": true, "help": true, "models": true,
}

func init() {
	for alias, idx := range aliasIndex {
		if idx < 0 || idx >= len(constants.AvailableModels) {
			panic(fmt.Sprintf("catalog: alias %q maps to index %d, out of bounds for %d models",
				alias, idx, len(constants.AvailableModels)))
		}
	}
}

// Resolution is the result of resolving a model token. Resolution never
// fails: an unrecognized token falls back to the default model with
// Fallback set and Reason explaining why.
type Resolution struct {
	Model    string
	Fallback bool
	Reason   string
}

// Models returns a copy of the model catalog.
func Models() []string {
	out := make([]string, len(constants.AvailableModels))
	copy(out, constants.AvailableModels)
	return out
}

// Default returns the default model identifier.
func Default() string {
	return constants.AvailableModels[0]
}

// IsHelpKeyword reports whether the token asks for the model listing.
func IsHelpKeyword(token string) bool {
	return helpKeywords[strings.ToLower(strings.TrimSpace(token))]
}

// Resolve maps a token to a canonical model identifier. Resolution order:
// empty token, exact catalog match (case-sensitive), numeric index,
// case-insensitive alias. Anything else falls back to the default model.
// Help keywords are not handled here; see ResolveInteractive.
func Resolve(token string) Resolution {
	token = strings.TrimSpace(token)
	if token == "" {
		return Resolution{Model: Default()}
	}

	for _, m := range constants.AvailableModels {
		if token == m {
			return Resolution{Model: m}
		}
	}

	lower := strings.ToLower(token)
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx >= 0 && idx < len(constants.AvailableModels) {
			return Resolution{Model: constants.AvailableModels[idx]}
		}
		return Resolution{
			Model:    Default(),
			Fallback: true,
			Reason:   fmt.Sprintf("index %d is out of range", idx),
		}
	}

	if idx, ok := aliasIndex[lower]; ok {
		return Resolution{Model: constants.AvailableModels[idx]}
	}

	return Resolution{
		Model:    Default(),
		Fallback: true,
		Reason:   fmt.Sprintf("unknown model %q", token),
	}
}

// ResolveInteractive resolves a token like Resolve, but help keywords print
// the enumerated catalog to out and re-prompt for a new token from in. The
// prompt loop is bounded: after maxHelpPrompts help requests, or on empty
// input, the default model is returned.
func ResolveInteractive(token string, in io.Reader, out io.Writer) Resolution {
	reader := bufio.NewReader(in)

	for attempt := 0; attempt < maxHelpPrompts; attempt++ {
		if !IsHelpKeyword(token) {
			return Resolve(token)
		}

		WriteModels(out)
		fmt.Fprintf(out, "Choose a model (press enter for %s): ", Default())

		line, err := reader.ReadString('\n')
		token = strings.TrimSpace(line)
		if token == "" || err != nil {
			return Resolution{Model: Default()}
		}
	}

	return Resolve(token)
}

// WriteModels prints the indexed model catalog to w.
func WriteModels(w io.Writer) {
	fmt.Fprintln(w, "Available models:")
	for i, m := range constants.AvailableModels {
		fmt.Fprintf(w, "  [%d] %s\n", i, m)
	}
}
