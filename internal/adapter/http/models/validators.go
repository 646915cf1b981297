package models

func digitsOnly(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDigits(value string, length int) bool {
	return len(value) == length && digitsOnly(value)
}
