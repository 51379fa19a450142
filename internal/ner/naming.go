package ner

// namer hands out sequential letter-indexed placeholders: the first person
// becomes "Personne A", the second "Personne B", and likewise for
// organizations. A namer lives for exactly one extraction call; sharing one
// across requests would leak naming state between documents.
type namer struct {
	person int
	org    int
}

func (n *namer) next(label string) string {
	switch label {
	case LabelPerson:
		n.person++
		return "Personne " + letterIndex(n.person)
	case LabelOrganization:
		n.org++
		return "Organisation " + letterIndex(n.org)
	}
	return ""
}

// letterIndex converts 1-based n to A, B, ..., Z, AA, AB, ...
func letterIndex(n int) string {
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}
