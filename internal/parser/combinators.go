package parser

// DelimitedList parses elements separated by interspacer until stop is next. A trailing
// interspacer is allowed. Whitespace after each element and after each interspacer is
// skipped, line breaks are not. The stop delimiter is left in the input for the caller,
// which knows what it closes.
//
// The list must have at least one element; callers check for an immediately closed list
// themselves.
func DelimitedList[T any](in *Input, element func(*Input) (T, error), stop rune, interspacer string) ([]T, error) {
	var items []T
	for {
		item, err := element(in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		in.SkipWhitespace()
		if in.IsEmpty() {
			return nil, UnexpectedEndOfInput(in.Here())
		}
		if in.StartsWith(interspacer) {
			in.consume(len(interspacer))
			in.SkipWhitespace()
			if in.IsEmpty() {
				return nil, UnexpectedEndOfInput(in.Here())
			}
			if in.PeekToken(stop) {
				return items, nil
			}
			continue
		}
		if in.PeekToken(stop) {
			return items, nil
		}
		found, _ := in.PeekChar()
		return nil, UnexpectedToken(in.charSpan(), "expected %s or %s, found %s",
			describe(interspacer), describe(string(stop)), describe(string(found)))
	}
}
