// Package roster normalizes participant lists into meeting.Participant values.
//
// Four inputs are understood: CSV with a name/email/expertise header, plain
// "name, email, expertise" lines, word-processor documents whose paragraphs
// follow the line format, and YAML/JSON sequences of mappings. The CSV path
// skips blank rows while the line path stops at the first short line; that
// asymmetry is intentional and callers surface the *FormatError verbatim.
package roster
