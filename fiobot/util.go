package fiobot

import (
	"encoding/json"
	"time"

	"github.com/gookit/color"
)

func bold(c color.Color) color.Style {
	return color.Style{color.Bold, c}
}

func (r *Robot) currentTime() string {
	return r.formatTime(time.Now())
}

func (r *Robot) formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05.999")
}

func p(v interface{}) string {
	bytes, _ := json.Marshal(v)
	return string(bytes)
}
