package hal

// crTranslator turns the lone carriage return a raw terminal sends on Enter
// into "\r\n". A line feed that already follows the carriage return is
// dropped so CRLF terminals do not produce an extra empty line.
type crTranslator struct {
	r         SerialReader
	pendingLF bool
	skipLF    bool
}

// TranslateCR wraps r with carriage return translation.
func TranslateCR(r SerialReader) SerialReader {
	return &crTranslator{r: r}
}

// ReadByte implements SerialReader.
func (t *crTranslator) ReadByte() (byte, error) {
	if t.pendingLF {
		t.pendingLF = false
		t.skipLF = true
		return '\n', nil
	}
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if t.skipLF {
			t.skipLF = false
			if c == '\n' {
				continue
			}
		}
		if c == '\r' {
			t.pendingLF = true
		}
		return c, nil
	}
}
