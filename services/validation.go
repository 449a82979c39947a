package services

import "regexp"

// Единый контракт валидации контактных данных. Все формы портала проверяют
// email и телефон одними и теми же предикатами.
//
// Email: local@domain.tld (домен обязан содержать точку).
// Телефон: от 7 до 20 цифр, разделители (+, пробелы, скобки, дефисы) не считаются.

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 20
}
