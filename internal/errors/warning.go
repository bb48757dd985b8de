package errors

import "fmt"

// Warning records a degraded decision taken in place of a hard failure.
type Warning struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Warnf builds a Warning with a formatted message.
func Warnf(kind Kind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

// Warnings is an ordered list of warnings collected during one run.
type Warnings []Warning

// Add appends a warning.
func (ws *Warnings) Add(w Warning) {
	*ws = append(*ws, w)
}

// Addf appends a formatted warning.
func (ws *Warnings) Addf(kind Kind, format string, args ...any) {
	ws.Add(Warnf(kind, format, args...))
}

// OfKind returns the warnings of the given kind.
func (ws Warnings) OfKind(kind Kind) Warnings {
	var out Warnings
	for _, w := range ws {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
