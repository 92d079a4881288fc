package pfs

import "fmt"

// WarningKind classifies advisory conditions. None of them stop extraction.
type WarningKind int

const (
	FooterSignatureMismatch WarningKind = iota + 1
	FooterLengthMismatch
	UnknownVersionType
	NestedContainerSkipped
)

func (k WarningKind) String() string {
	switch k {
	case FooterSignatureMismatch:
		return "footer_signature_mismatch"
	case FooterLengthMismatch:
		return "footer_length_mismatch"
	case UnknownVersionType:
		return "unknown_version_type"
	case NestedContainerSkipped:
		return "nested_container_skipped"
	default:
		return fmt.Sprintf("warning(%d)", int(k))
	}
}

func (k WarningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Warning is an advisory finding. Section is -1 for container-level warnings.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Section int         `json:"section"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Section < 0 {
		return w.Kind.String() + ": " + w.Message
	}
	return fmt.Sprintf("%s: section %d: %s", w.Kind, w.Section, w.Message)
}
