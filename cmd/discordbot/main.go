/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/tcgstandings/internal/config"
	"github.com/mikeb26/tcgstandings/table"
)

type TopLevelCommand string

const (
	MetaCmd TopLevelCommand = "meta"
)

type CmdHandler func(b *bot, ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	MetaCmd: (*bot).metaCmdHandler,
}

// bot answers slash commands from the standings table in store
type bot struct {
	store   *table.Store
	pubKey  ed25519.PublicKey
	palette []string
}

func newBot(store *table.Store, pubKeyHex string) (*bot, error) {
	pubKeyBytes, err := hex.DecodeString(strings.TrimSpace(pubKeyHex))
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key is %d bytes; expected %d",
			len(pubKeyBytes), ed25519.PublicKeySize)
	}

	return &bot{
		store:   store,
		pubKey:  ed25519.PublicKey(pubKeyBytes),
		palette: table.DefaultPalette,
	}, nil
}

func (b *bot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		name := inter.ApplicationCommandData().Name
		hdlr, ok := topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(b, r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interaction type %v", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
	}
}

func commandHash(cmd *discordgo.ApplicationCommand) (string, error) {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:]), nil
}

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand, lastHash string) bool {
	hexString, err := commandHash(cmd)
	if err != nil {
		log.Printf("discordbot.reg: failed to marshal cmd: %v", err)
		return false
	}

	shouldUpdate := (hexString != lastHash)
	if shouldUpdate {
		log.Printf("discordbot.reg: updating cmd reg; please set DISCORD_COMMAND_HASH to %v",
			hexString)
	}

	return shouldUpdate
}

func registerSlashCommands(client *discordgo.Session, dc config.DiscordConfig) {
	metaCmd := metaCommand()

	if dc.CommandID == "" {
		cmd, err := client.ApplicationCommandCreate(dc.AppID, "", metaCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", metaCmd.Name, err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v); please set DISCORD_COMMAND_ID",
			cmd.Name, cmd.ID)
	} else if shouldUpdateCmdRegistration(metaCmd, dc.CommandHash) {
		cmd, err := client.ApplicationCommandEdit(dc.AppID, "", dc.CommandID, metaCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", metaCmd.Name, err)
			return
		}

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	if !cfg.HasDiscord() {
		log.Fatalf("discordbot.main: DISCORD_APP_ID, DISCORD_PUBLIC_KEY and DISCORD_BOT_TOKEN must be set")
	}

	b, err := newBot(table.NewStore(cfg.Table.Path), cfg.Discord.PublicKey)
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}

	client, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		log.Fatalf("discordbot.main: failed to initialize discord client: %v", err)
	}
	client.UserAgent = "DiscordBot (https://github.com/mikeb26/tcgstandings, " +
		discordgo.VERSION + ")"
	go registerSlashCommands(client, cfg.Discord)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v%v (table:%v)", hostname,
		cfg.Discord.Addr, cfg.Table.Path)

	mux := http.NewServeMux()
	mux.HandleFunc("/DiscordBot/Interaction", b.interactionHandler)
	if err := http.ListenAndServe(cfg.Discord.Addr, mux); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
