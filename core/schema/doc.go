// Package schema validates feed documents against structural rules before ingestion.
//
// Rules are a YAML document naming the root element and, per element, the allowed
// children with their occurrence bounds, groups of mutually exclusive children, allowed
// and required attributes, and enumerations or patterns for text and attribute values.
// Child order is not enforced. The ingestion feed rules are embedded (ingestion.yaml)
// and can be replaced with Load(path).
//
// Validation streams the document with encoding/xml and reports every violation with
// its line number. Malformed XML is reported as a violation too, so callers only need
// to check for an empty result:
//
//	s, err := schema.Load(cfg.Ingest.SchemaPath)
//	if violations := s.Validate(bytes.NewReader(doc)); len(violations) > 0 {
//	    // reject the document
//	}
package schema
