package fiobot

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Segment OneBot v11 消息段
type Segment struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Text 文本消息段
func Text(content string) Segment {
	return Segment{Type: "text", Data: map[string]interface{}{"text": content}}
}

// ImageURL 图片消息段（url来源）
func ImageURL(url string) Segment {
	return Segment{Type: "image", Data: map[string]interface{}{"file": url}}
}

// ImageBytes 图片消息段（内存数据，base64编码后发送）
func ImageBytes(data []byte) Segment {
	return Segment{Type: "image", Data: map[string]interface{}{
		"file": "base64://" + base64.StdEncoding.EncodeToString(data),
	}}
}

// Reply 回复消息段
func Reply(messageID int64) Segment {
	return Segment{Type: "reply", Data: map[string]interface{}{"id": strconv.FormatInt(messageID, 10)}}
}

// At at某人消息段
func At(qq int64) Segment {
	return Segment{Type: "at", Data: map[string]interface{}{"qq": strconv.FormatInt(qq, 10)}}
}

func (s Segment) text() string {
	if s.Type != "text" {
		return ""
	}
	text, _ := s.Data["text"].(string)
	return text
}

// plainText 拼接消息中的全部文本段
func plainText(segments []Segment) string {
	builder := strings.Builder{}
	for _, seg := range segments {
		builder.WriteString(seg.text())
	}
	return builder.String()
}

// firstImageURL 取出消息中第一个图片段的url
func firstImageURL(segments []Segment) string {
	for _, seg := range segments {
		if seg.Type != "image" {
			continue
		}
		if url, ok := seg.Data["url"].(string); ok && url != "" {
			return url
		}
		if file, ok := seg.Data["file"].(string); ok && file != "" {
			return file
		}
	}
	return ""
}

// 单条消息发送的大小有限制，所以需要分成多段来发
const maxMessageSize = 5000

// splitLongMessage 将过长的消息分割为若干个适合发送的消息
func splitLongMessage(segments []Segment) [][]Segment {
	// 合并连续文本消息
	segments = mergeContinuousText(segments)

	// 分割过长元素
	segments = splitElements(segments)

	// 将元素分为多组，确保各组不超过单条消息的上限
	return groupBySize(segments)
}

// mergeContinuousText 预先将所有连续的文本段合并到一起，方便后续统一切割
func mergeContinuousText(segments []Segment) []Segment {
	var merged []Segment

	textBuffer := strings.Builder{}
	flushText := func() {
		if textBuffer.Len() != 0 {
			merged = append(merged, Text(textBuffer.String()))
			textBuffer.Reset()
		}
	}

	for _, seg := range segments {
		if seg.Type == "text" {
			textBuffer.WriteString(seg.text())
			continue
		}
		flushText()
		merged = append(merged, seg)
	}
	flushText()

	return merged
}

// splitElements 将过长的文本段按需分割为多个元素
func splitElements(segments []Segment) []Segment {
	var parts []Segment
	for _, seg := range segments {
		if seg.Type == "text" {
			parts = append(parts, splitPlainMessage(seg.text())...)
			continue
		}
		parts = append(parts, seg)
	}
	return parts
}

// splitPlainMessage 按rune边界将过长文本切割为多个文本段
func splitPlainMessage(content string) []Segment {
	if len(content) <= maxMessageSize {
		return []Segment{Text(content)}
	}

	var splitted []Segment

	remainingText := content
	for len(remainingText) != 0 {
		partSize := 0
		for _, runeValue := range remainingText {
			runeSize := len(string(runeValue))
			if partSize+runeSize > maxMessageSize {
				break
			}
			partSize += runeSize
		}

		splitted = append(splitted, Text(remainingText[:partSize]))
		remainingText = remainingText[partSize:]
	}

	return splitted
}

// groupBySize 根据大小将消息段分为多个消息进行发送
func groupBySize(segments []Segment) [][]Segment {
	var messages [][]Segment

	var part []Segment
	msgSize := 0
	for _, seg := range segments {
		estimateSize := estimateSegmentSize(seg)
		// 若当前分消息加上新的元素后大小会超限，且已经有元素（确保不会无限循环），则开始切分为新的一个元素
		if msgSize+estimateSize > maxMessageSize && len(part) > 0 {
			messages = append(messages, part)
			part = nil
			msgSize = 0
		}

		part = append(part, seg)
		msgSize += estimateSize
	}
	if len(part) != 0 {
		messages = append(messages, part)
	}

	return messages
}

func estimateSegmentSize(seg Segment) int {
	if seg.Type == "text" {
		return len(seg.text())
	}
	// 非文本段按固定开销估算
	return 100
}
