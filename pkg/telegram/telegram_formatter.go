package telegram

import (
	"fmt"
	"strings"
	"time"
)

// PostMessage is the board activity rendered into a chat message.
type PostMessage struct {
	Kind         string // created, updated, deleted, liked, unliked
	PostID       uint
	Title        string
	Author       string
	StockCode    string
	StockName    string
	Sentiment    string
	PositionType string
	LikeCount    int
	At           time.Time
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes the characters legacy Telegram Markdown treats as markup.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// FormatPostMessage renders a post event as a Markdown message.
func FormatPostMessage(m PostMessage) string {
	var sb strings.Builder

	var header string
	switch m.Kind {
	case "created":
		header = "📝 *New post*"
	case "updated":
		header = "✏️ *Post updated*"
	case "deleted":
		header = "🗑 *Post deleted*"
	case "liked", "unliked":
		header = "👍 *Likes changed*"
	default:
		header = "📌 *Post activity*"
	}
	sb.WriteString(fmt.Sprintf("%s #%d\n", header, m.PostID))
	// Legacy Markdown has no escapes inside an entity, so user text stays unstyled.
	sb.WriteString(fmt.Sprintf("%s\n", EscapeMarkdown(m.Title)))
	sb.WriteString(fmt.Sprintf("by %s\n", EscapeMarkdown(m.Author)))

	if m.StockCode != "" {
		if m.StockName != "" {
			sb.WriteString(fmt.Sprintf("📈 %s (%s)\n", EscapeMarkdown(m.StockName), EscapeMarkdown(m.StockCode)))
		} else {
			sb.WriteString(fmt.Sprintf("📈 %s\n", EscapeMarkdown(m.StockCode)))
		}
	}

	sb.WriteString(fmt.Sprintf("%s *Sentiment:* %s | *Position:* %s\n", sentimentIcon(m.Sentiment), m.Sentiment, m.PositionType))
	if m.Kind == "liked" || m.Kind == "unliked" {
		sb.WriteString(fmt.Sprintf("❤️ *Likes:* %d\n", m.LikeCount))
	}
	if !m.At.IsZero() {
		sb.WriteString(fmt.Sprintf("🕒 %s", m.At.UTC().Format("2006-01-02 15:04 MST")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func sentimentIcon(sentiment string) string {
	switch strings.ToLower(sentiment) {
	case "bullish":
		return "😊"
	case "bearish":
		return "😟"
	default:
		return "😐"
	}
}

// TrendLine is one stock in a trending digest.
type TrendLine struct {
	StockCode      string
	StockName      string
	PostCount      int64
	BullishCount   int64
	NeutralCount   int64
	BearishCount   int64
	AvgTargetPrice *float64
}

// FormatTrendingDigest renders the most discussed stocks of the last days.
func FormatTrendingDigest(days int, lines []TrendLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("🔥 *Trending stocks, last %d days*\n\nNo stock discussions in this window.", days)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔥 *Trending stocks, last %d days*\n", days))
	for i, l := range lines {
		name := EscapeMarkdown(l.StockCode)
		if l.StockName != "" {
			name = fmt.Sprintf("%s (%s)", EscapeMarkdown(l.StockName), EscapeMarkdown(l.StockCode))
		}
		sb.WriteString(fmt.Sprintf("\n*%d.* %s: %d posts\n", i+1, name, l.PostCount))
		sb.WriteString(fmt.Sprintf("   😊 %d | 😐 %d | 😟 %d", l.BullishCount, l.NeutralCount, l.BearishCount))
		if l.AvgTargetPrice != nil {
			sb.WriteString(fmt.Sprintf(" | 🎯 avg target %.0f", *l.AvgTargetPrice))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
