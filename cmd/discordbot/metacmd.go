/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/tcgstandings/table"
)

type MetaSubCommand string

const (
	MetaHelpCmd    MetaSubCommand = "help"
	MetaSummaryCmd MetaSubCommand = "summary"
	MetaDecksCmd   MetaSubCommand = "decks"
	MetaPlayerCmd  MetaSubCommand = "player"
)

const (
	defaultDeckCount = 10
	maxDeckCount     = 25

	// longer event names are cut so the header fits beside a full reply
	maxEventNameLen = 60
)

var metaSubCmdHdlrs = map[MetaSubCommand]CmdHandler{
	MetaHelpCmd:    (*bot).metaHelpCmdHandler,
	MetaSummaryCmd: (*bot).metaSummaryCmdHandler,
	MetaDecksCmd:   (*bot).metaDecksCmdHandler,
	MetaPlayerCmd:  (*bot).metaPlayerCmdHandler,
}

func metaCommand() *discordgo.ApplicationCommand {
	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
	countryOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "country",
		Description: "Only count players from this country",
		Required:    false,
	}

	return &discordgo.ApplicationCommand{
		Name:        string(MetaCmd),
		Description: "Tournament metagame reports; try /meta help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MetaHelpCmd),
				Description: "Show usage for meta",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MetaSummaryCmd),
				Description: "Show headline numbers for the standings",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "deck",
						Description: "Only count decks whose name contains this text",
						Required:    false,
					},
					countryOpt,
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MetaDecksCmd),
				Description: "Show the most played decks and how they performed",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "count",
						Description: "Number of decks to show (default is 10)",
						Required:    false,
					},
					countryOpt,
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "by_winrate",
						Description: "Rank decks by win rate instead of player count",
						Required:    false,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MetaPlayerCmd),
				Description: "Look up players by name",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "All or part of the player's name",
						Required:    true,
					},
					broadcastOpt,
				},
			},
		},
	}
}

func (b *bot) metaCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := (*bot).metaHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := metaSubCmdHdlrs[MetaSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(b, ctx, inter)
}

// optionMap holds the options of the invoked subcommand by name
type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

func subCmdOptions(inter *discordgo.Interaction) optionMap {
	opts := make(optionMap)
	data := inter.ApplicationCommandData()
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			opts[opt.Name] = opt
		}
	}
	return opts
}

func newResponse(opts optionMap) *discordgo.InteractionResponse {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	if opt, ok := opts["broadcast"]; ok && opt.BoolValue() {
		resp.Data.Flags = 0
	}
	return resp
}

// loadRows reads the table; on failure resp carries an error message
func (b *bot) loadRows(resp *discordgo.InteractionResponse, cmd string) ([]table.Row, bool) {
	rows, err := b.store.Load()
	if err != nil {
		log.Printf("discordbot.%v: failed to load %v: %v", cmd, b.store.Path, err)
		resp.Data.Content = "Standings are not available right now; please try again later."
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
		return nil, false
	}
	return rows, true
}

// eventHeader names the event the table was generated for, if known
func (b *bot) eventHeader() string {
	md, err := b.store.Metadata()
	if err != nil {
		if !errors.Is(err, table.ErrNoMetadata) {
			log.Printf("discordbot.meta: failed to read metadata: %v", err)
		}
		return ""
	}
	event := []rune(strings.TrimSpace(md.Event))
	if len(event) == 0 {
		return ""
	}
	name := string(event)
	if len(event) > maxEventNameLen {
		name = string(event[:maxEventNameLen]) + "..."
	}
	if md.EventDate.IsZero() {
		return fmt.Sprintf("**%v**\n", name)
	}
	return fmt.Sprintf("**%v** (%v)\n", name, md.EventDate.Format("2006-01-02"))
}

//go:embed help.md
var helpText string

func (b *bot) metaHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse(nil)
	resp.Data.Content = truncateContent(helpText)
	return resp
}

func (b *bot) metaSummaryCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	opts := subCmdOptions(inter)
	resp := newResponse(opts)

	rows, ok := b.loadRows(resp, "summary")
	if !ok {
		return resp
	}
	var f table.Filter
	if opt, ok := opts["deck"]; ok {
		f.Deck = strings.TrimSpace(opt.StringValue())
	}
	if opt, ok := opts["country"]; ok {
		f.Country = strings.TrimSpace(opt.StringValue())
	}
	rows = f.Apply(rows)

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = b.eventHeader() + fmt.Sprintf("```\n%s```",
		truncateContent(table.BuildSummaryOutput(table.Summarize(rows))))

	return resp
}

func (b *bot) metaDecksCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	opts := subCmdOptions(inter)
	resp := newResponse(opts)

	count := int64(defaultDeckCount)
	if opt, ok := opts["count"]; ok {
		count = opt.IntValue()
	}
	// enforce bounds
	if count <= 0 {
		count = defaultDeckCount
	} else if count > maxDeckCount {
		count = maxDeckCount
	}

	rows, ok := b.loadRows(resp, "decks")
	if !ok {
		return resp
	}
	var f table.Filter
	if opt, ok := opts["country"]; ok {
		f.Country = strings.TrimSpace(opt.StringValue())
	}
	stats := table.DeckStats(f.Apply(rows), b.palette)
	if opt, ok := opts["by_winrate"]; ok && opt.BoolValue() {
		stats = table.TopByWinRate(stats, 0)
	}

	resp.Data.Content = b.eventHeader() + fmt.Sprintf("```\n%s```",
		truncateContent(table.BuildDeckStatsOutput(stats, int(count))))

	return resp
}

func (b *bot) metaPlayerCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	opts := subCmdOptions(inter)
	resp := newResponse(opts)

	var name string
	if opt, ok := opts["name"]; ok {
		name = strings.TrimSpace(opt.StringValue())
	}
	if name == "" {
		resp.Data.Content = "Please provide a player name."
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
		log.Printf("discordbot.player: %v", resp.Data.Content)
		return resp
	}

	rows, ok := b.loadRows(resp, "player")
	if !ok {
		return resp
	}
	matches := matchPlayers(rows, name)
	if len(matches) == 0 {
		resp.Data.Content = fmt.Sprintf("No players found matching '%v'.", name)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(table.BuildRowsOutput(matches)))

	return resp
}

// matchPlayers returns rows whose name contains name, ignoring case
func matchPlayers(rows []table.Row, name string) []table.Row {
	needle := strings.ToLower(name)
	var out []table.Row
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1900 // keep space for the event header, newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...\n", string(runes[:MsgLimit]))
	}
	return s
}
