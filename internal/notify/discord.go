package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/pable/go-br-leaderboard/internal/model"
)

const (
	thumbnailURL = "https://cdn.discordapp.com/icons/1213253795333541960/37779228e58038571549819a2c6aa362.png"
	embedColor   = 0xFFFFFF
	// Discord rejects embeds whose description is longer than this.
	maxDescription = 4096
	rowFormat      = "```%-3s %-16s %-5s %-5s %-5s %-5s```"
)

type embedImage struct {
	URL string `json:"url"`
}

type embed struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Color       int        `json:"color"`
	Timestamp   string     `json:"timestamp"`
	Thumbnail   embedImage `json:"thumbnail"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// Discord posts leaderboards to a Discord webhook.
type Discord struct {
	webhookURL string
	client     *fasthttp.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDiscord returns a notifier for webhookURL.
func NewDiscord(webhookURL string, logger zerolog.Logger) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		client: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// PostLeaderboard posts the top limit records (all when limit <= 0) as one embed.
func (d *Discord) PostLeaderboard(ctx context.Context, t model.Tournament, records []model.Record, limit int) error {
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	description, shown := Describe(records)
	if shown < len(records) {
		d.logger.Warn().
			Str("tournament_id", t.ID).
			Int("shown", shown).
			Int("total", len(records)).
			Msg("leaderboard truncated to fit the embed")
	}

	payload := webhookPayload{Embeds: []embed{{
		Title:       t.Name,
		URL:         LeaderboardURL(t.ID),
		Description: description,
		Color:       embedColor,
		Timestamp:   d.now().UTC().Format(time.RFC3339),
		Thumbnail:   embedImage{URL: thumbnailURL},
	}}}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(d.webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = d.client.DoDeadline(req, resp, deadline)
	} else {
		err = d.client.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("post webhook: status %d: %s", code, resp.Body())
	}

	d.logger.Info().Str("tournament_id", t.ID).Int("rows", shown).Msg("leaderboard posted to discord")
	return nil
}

// LeaderboardURL links to the public Yunite page of a tournament.
func LeaderboardURL(tournamentID string) string {
	return "https://yunite.xyz/leaderboard/" + tournamentID
}

// Describe renders the embed description: a header row, then one row per record
// until the next row would overflow the description limit. It returns the text
// and the number of records rendered.
func Describe(records []model.Record) (string, int) {
	var b strings.Builder
	fmt.Fprintf(&b, rowFormat, "#", "Username", "Kills", "Wins", "AvgP", "Score")

	shown := 0
	for _, r := range records {
		row := fmt.Sprintf(rowFormat,
			strconv.Itoa(r.Rank),
			r.Player().DisplayName,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Wins),
			oneDecimal(r.AveragePlacement),
			strconv.Itoa(r.Score),
		)
		if b.Len()+len(row) > maxDescription {
			break
		}
		b.WriteString(row)
		shown++
	}
	return b.String(), shown
}

func oneDecimal(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', 1, 64)
}
