package errors

// Sentinel errors for the failure kinds a run can end in.
// Attach one with Mark so the original message is preserved:
//
//	return errors.Mark(errors.Wrap(err, "append record"), errors.ErrWrite)
//
// and classify with KindOf or errors.Is.
var (
	// ErrInvalidInput indicates malformed CLI input, config or datetime override
	ErrInvalidInput = New("invalid input")

	// ErrAcquire indicates a resource (schema, storage, writer) could not be acquired
	ErrAcquire = New("resource acquisition failed")

	// ErrWrite indicates a record could not be appended to the output
	ErrWrite = New("write failed")

	// ErrInterrupted indicates a pacing wait was cancelled
	ErrInterrupted = New("interrupted")

	// ErrRelease indicates the output could not be finalized
	ErrRelease = New("release failed")
)

// Kind classifies a run failure.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidInput
	KindAcquire
	KindWrite
	KindInterrupted
	KindRelease
	KindUnknown
)

var kindSentinels = []struct {
	kind     Kind
	sentinel error
}{
	{KindInvalidInput, ErrInvalidInput},
	{KindAcquire, ErrAcquire},
	{KindWrite, ErrWrite},
	{KindInterrupted, ErrInterrupted},
	{KindRelease, ErrRelease},
}

// KindOf returns the kind of the first matching sentinel in err's chain.
// When a write failure is combined with a release failure the primary
// error decides, so the write kind wins.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, ks := range kindSentinels {
		if Is(err, ks.sentinel) {
			return ks.kind
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindAcquire:
		return "acquire"
	case KindWrite:
		return "write"
	case KindInterrupted:
		return "interrupted"
	case KindRelease:
		return "release"
	default:
		return "unknown"
	}
}
