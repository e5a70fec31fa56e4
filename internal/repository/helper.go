package repository

import (
	"encoding/base64"
	"time"
)

const (
	timeFormat = "2006-01-02T15:04:05.999Z07:00" // reduce precision loss
	defaultNum = 10
	maxNum     = 50
)

// DecodeCursor turns an opaque pagination cursor back into a timestamp.
func DecodeCursor(encodedTime string) (time.Time, error) {
	byt, err := base64.StdEncoding.DecodeString(encodedTime)
	if err != nil {
		return time.Time{}, err
	}

	timeString := string(byt)
	t, err := time.Parse(timeFormat, timeString)
	return t, err
}

// EncodeCursor turns a timestamp into an opaque pagination cursor.
func EncodeCursor(t time.Time) string {
	timeString := t.Format(timeFormat)
	return base64.StdEncoding.EncodeToString([]byte(timeString))
}

// PageVerify clamps a page size into the allowed range.
func PageVerify(num *int64) {
	if *num <= 0 {
		*num = defaultNum
	}
	if *num > maxNum {
		*num = maxNum
	}
}
