package domain

// PayloadKind is the wire tag of a Payload variant.
type PayloadKind string

const (
	PayloadText PayloadKind = "text"
	PayloadFile PayloadKind = "file"
)

// Payload is a closed variant: only Text and File implement it.
type Payload interface {
	Kind() PayloadKind
	payload()
}

type Text struct {
	Body string
}

func (Text) Kind() PayloadKind { return PayloadText }
func (Text) payload()          {}

// File points at an attachment already stored by the attachment store.
type File struct {
	Filename string
	URL      string
}

func (File) Kind() PayloadKind { return PayloadFile }
func (File) payload()          {}
