package utils

import (
	"io"
	"net/http"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks if the email has a plausible shape.
func ValidateEmail(email string) (bool, string) {
	if len(email) > 255 || !emailPattern.MatchString(email) {
		return false, "邮箱格式不正确"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "密码最少8位"
	}

	if matched, _ := regexp.MatchString(`^[a-zA-Z0-9[:punct:]]+$`, password); !matched {
		return false, "密码只能包含英文大小写、数字和符号"
	}

	return true, ""
}

// SniffContentType 读取文件头 512 字节探测真实 MIME 类型，并重置读取位置。
func SniffContentType(reader io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	// 重置读取位置
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buffer[:n]), nil
}

// IsImageContentType 判断探测到的 MIME 类型是否为图片。
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
