package book

import "strings"

var isbnSeparators = strings.NewReplacer("-", "", " ", "")

// NormalizeISBN 去掉连字符和空格，校验长度为10或13
// 978-0132350884 → 9780132350884
// 只允许数字，ISBN-10的校验位可以是X，小写x统一转为大写
func NormalizeISBN(raw string) (string, error) {
	isbn := isbnSeparators.Replace(raw)
	if len(isbn) == 10 && isbn[9] == 'x' {
		isbn = isbn[:9] + "X"
	}

	if len(isbn) != 10 && len(isbn) != 13 {
		return "", ErrInvalidISBN
	}
	for i, r := range isbn {
		if r >= '0' && r <= '9' {
			continue
		}
		if len(isbn) == 10 && i == 9 && r == 'X' {
			continue
		}
		return "", ErrInvalidISBN
	}
	return isbn, nil
}
