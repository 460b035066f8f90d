package merge

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const (
	containerElement = "container"
	servicesElement  = "services"
	serviceElement   = "service"
	whenElement      = "when"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

// serviceDocumentHeader is the fixed root every merged document is written with.
const serviceDocumentHeader = `<?xml version="1.0" encoding="UTF-8"?>

<container xmlns="http://symfony.com/schema/dic/services"
           xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
           xsi:schemaLocation="http://symfony.com/schema/dic/services https://symfony.com/schema/dic/services/services-1.0.xsd">
`

// ServiceEntry is one child element of <services>, kept exactly as it
// appeared in its source document.
type ServiceEntry struct {
	Tag string // element name, usually "service"
	ID  string // value of the id attribute, empty when absent
	Raw []byte // the element's bytes from "<" to its closing ">"
}

// key identifies the entry for deduplication. Services are keyed by id;
// other elements (defaults, prototype, instanceof) only collapse when they
// are byte-identical. An empty key never matches anything.
func (e ServiceEntry) key() string {
	if e.Tag == serviceElement {
		if e.ID == "" {
			return ""
		}
		return serviceElement + "\x00" + e.ID
	}
	return e.Tag + "\x00" + string(bytes.TrimSpace(e.Raw))
}

// Section is a non-services child of <container>, such as <imports> or
// <parameters>.
type Section struct {
	Tag string
	Env string // env attribute, only set for <when>
	Raw []byte
}

// key identifies the section for deduplication. A document holds one section
// per tag, except <when> which repeats once per environment.
func (s Section) key() string {
	if s.Tag != whenElement {
		return s.Tag
	}
	if s.Env == "" {
		return s.Tag + "\x00" + string(bytes.TrimSpace(s.Raw))
	}
	return s.Tag + "\x00env\x00" + s.Env
}

// ServiceDocument is the parsed form of a services.xml file.
type ServiceDocument struct {
	Sections []Section
	Entries  []ServiceEntry
}

// ParseServiceDocument reads a services.xml document. Entries keep their raw
// bytes; whitespace and comments between entries are dropped. A leading
// byte order mark is ignored.
func ParseServiceDocument(data []byte) (*ServiceDocument, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &ServiceDocument{}

	depth := 0
	sawRoot := false
	inServices := false

	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth == 0:
				if sawRoot {
					return nil, fmt.Errorf("%w: more than one root element", ErrMalformedDocument)
				}
				if t.Name.Local != containerElement {
					return nil, fmt.Errorf("%w: root element is <%s>, expected <%s>", ErrMalformedDocument, t.Name.Local, containerElement)
				}
				sawRoot = true
				depth++

			case depth == 1 && t.Name.Local == servicesElement:
				inServices = true
				depth++

			case depth == 1:
				raw, err := skipElement(dec, data, start)
				if err != nil {
					return nil, err
				}
				section := Section{Tag: t.Name.Local, Raw: raw}
				if section.Tag == whenElement {
					section.Env = attrValue(t, "env")
				}
				doc.Sections = append(doc.Sections, section)

			case depth == 2 && inServices:
				raw, err := skipElement(dec, data, start)
				if err != nil {
					return nil, err
				}
				entry := ServiceEntry{Tag: t.Name.Local, Raw: raw}
				if entry.Tag == serviceElement {
					entry.ID = attrValue(t, "id")
				}
				doc.Entries = append(doc.Entries, entry)

			default:
				depth++
			}

		case xml.EndElement:
			depth--
			if depth == 1 && inServices {
				inServices = false
			}

		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside the root element", ErrMalformedDocument)
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}

	return doc, nil
}

// skipElement consumes the element whose start tag was just read and returns
// a copy of its bytes.
func skipElement(dec *xml.Decoder, data []byte, start int64) ([]byte, error) {
	if err := dec.Skip(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	end := dec.InputOffset()
	raw := make([]byte, end-start)
	copy(raw, data[start:end])
	return raw, nil
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Bytes serializes the document with the canonical container root.
func (d *ServiceDocument) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(serviceDocumentHeader)

	for _, s := range d.Sections {
		buf.WriteString("    ")
		buf.Write(s.Raw)
		buf.WriteString("\n")
	}

	buf.WriteString("    <services>\n")
	for _, e := range d.Entries {
		buf.WriteString("        ")
		buf.Write(e.Raw)
		buf.WriteString("\n")
	}
	buf.WriteString("    </services>\n")
	buf.WriteString("</container>\n")

	return buf.Bytes()
}

// IDs returns the ids of all service entries in document order.
func (d *ServiceDocument) IDs() []string {
	ids := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Tag == serviceElement {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// MergeServiceDocuments combines two documents. Existing entries come first
// and win on id collisions; incoming entries are appended in their own order.
func MergeServiceDocuments(existing, incoming *ServiceDocument) *ServiceDocument {
	merged := &ServiceDocument{}

	sections := make(map[string]bool)
	for _, s := range existing.Sections {
		merged.Sections = append(merged.Sections, s)
		sections[s.key()] = true
	}
	for _, s := range incoming.Sections {
		if sections[s.key()] {
			continue
		}
		merged.Sections = append(merged.Sections, s)
		sections[s.key()] = true
	}

	seen := make(map[string]bool)
	add := func(e ServiceEntry) {
		key := e.key()
		if key != "" {
			if seen[key] {
				return
			}
			seen[key] = true
		}
		merged.Entries = append(merged.Entries, e)
	}

	for _, e := range existing.Entries {
		add(e)
	}
	for _, e := range incoming.Entries {
		add(e)
	}

	return merged
}

// ServiceRegistryMerger merges Symfony DI services.xml documents.
type ServiceRegistryMerger struct{}

// Merge parses both documents and returns the canonical merged document.
// Nothing is returned unless both sides parse.
func (m *ServiceRegistryMerger) Merge(existing, incoming []byte) ([]byte, error) {
	oldDoc, err := ParseServiceDocument(existing)
	if err != nil {
		return nil, fmt.Errorf("existing document: %w", err)
	}

	newDoc, err := ParseServiceDocument(incoming)
	if err != nil {
		return nil, fmt.Errorf("incoming document: %w", err)
	}

	return MergeServiceDocuments(oldDoc, newDoc).Bytes(), nil
}
