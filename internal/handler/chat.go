package handler

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

const chatHelpText = "Available chat commands:\n" +
	"/w <nickname> - enter whisper mode (supports spaces in nickname).\n" +
	"/a - return to public chat.\n" +
	"/help - show this help message."

// HandleChat runs the full chat pipeline: length check, rate limit,
// command parsing, then whisper or public delivery.
func HandleChat(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := deps.World.Get(sess.ID)
	if p == nil || !p.Welcomed() {
		return
	}

	req, ok := packet.ReadChatRequest(r)
	if !ok {
		deps.Log.Debug("malformed chat request", zap.Uint32("id", sess.ID))
		return
	}

	// Length violations get no reply: echoing validation details back
	// would hand abusers an amplifier.
	if len(req.Text) == 0 || len(req.Text) > deps.Config.Chat.MaxTextLen {
		deps.Log.Debug("chat rejected: invalid text length",
			zap.Uint32("id", sess.ID), zap.Int("len", len(req.Text)))
		return
	}

	// The limiter timestamp only advances on acceptance, so a burst is
	// throttled to one message per interval instead of resetting.
	now := time.Now()
	if now.Sub(p.LastChat) < deps.Config.Chat.RateLimit.Std() {
		deps.Log.Warn("chat rate-limited", zap.Uint32("id", sess.ID))
		sendSystemMessage(p, "Message rate-limited. Please slow down.")
		return
	}
	p.LastChat = now

	isCommand := strings.HasPrefix(req.Text, "/")
	deps.Bus.Emit(event.ChatSent{
		SenderID: sess.ID,
		ChatType: uint8(req.ChatType),
		Command:  isCommand,
	})

	if isCommand {
		handleChatCommand(p, req.Text, deps)
		return
	}

	if p.ChatMode.IsWhisper() {
		deliverWhisper(p, req.Text, deps)
		return
	}

	senderName := p.DisplayName()
	switch req.ChatType {
	case packet.ChatPublic:
		deps.Log.Info("public chat",
			zap.String("from", senderName), zap.String("text", req.Text))
		broadcastChat(deps.World, packet.ChatPublic, p.ID(), senderName, req.Text)
	case packet.ChatWhisper:
		// Whisper mode must be entered explicitly.
		sendSystemMessage(p, "Use /w <nickname> to enter whisper mode.")
	case packet.ChatSystem:
		deps.Log.Warn("client tried to send a system message",
			zap.Uint32("id", p.ID()))
	default:
		deps.Log.Debug("unknown chat type",
			zap.Uint32("id", p.ID()), zap.Uint8("chat_type", uint8(req.ChatType)))
	}
}

func handleChatCommand(p *world.Player, text string, deps *Deps) {
	switch {
	case text == "/help":
		sendSystemMessage(p, chatHelpText)

	case strings.HasPrefix(text, "/a") && strings.TrimSpace(text[2:]) == "":
		p.ChatMode = world.PublicMode()
		sendSystemMessage(p, "[CHAT_MODE:PUBLIC] Switched to public chat.")

	case text == "/w" || strings.HasPrefix(text, "/w "):
		targetNickname := strings.TrimSpace(text[2:])
		if targetNickname == "" {
			sendSystemMessage(p, "Usage: /w <nickname>")
			return
		}
		target := deps.World.GetByNickname(targetNickname)
		if target == nil || !target.Welcomed() {
			p.ChatMode = world.PublicMode()
			sendSystemMessage(p, "[CHAT_MODE:PUBLIC] Player '"+targetNickname+
				"' is not online. Switched to public chat.")
			return
		}
		targetName := target.DisplayName()
		p.ChatMode = world.WhisperMode(target.ID(), targetName)
		sendSystemMessage(p, "[CHAT_MODE:WHISPER:"+targetName+
			"] Whisper mode on for '"+targetName+"'. Use /a to return to public chat.")

	default:
		sendSystemMessage(p, "Unknown command. Type /help for commands.")
	}
}

// deliverWhisper sends text to the whisper target and echoes it to the
// sender. A vanished target drops the message and falls back to public
// mode; whisper delivery failure never silently becomes a public
// broadcast.
func deliverWhisper(p *world.Player, text string, deps *Deps) {
	target := deps.World.Get(p.ChatMode.TargetID)
	if target == nil || !target.Welcomed() {
		offlineName := "selected player"
		if p.ChatMode.TargetName != "" {
			offlineName = "'" + p.ChatMode.TargetName + "'"
		}
		p.ChatMode = world.PublicMode()
		sendSystemMessage(p, "[CHAT_MODE:PUBLIC] Whisper target "+offlineName+
			" is offline. Switched to public chat.")
		return
	}

	// Names are resolved at delivery time, not captured at /w time.
	senderName := p.DisplayName()
	targetName := target.DisplayName()
	p.ChatMode = world.WhisperMode(target.ID(), targetName)

	deps.Log.Info("whisper",
		zap.String("from", senderName), zap.String("to", targetName))

	pkt := packet.WriteChatBroadcast(packet.ChatWhisper, p.ID(), senderName, text)
	target.Session.Send(pkt)
	if target.ID() != p.ID() {
		p.Session.Send(pkt)
	}
}

func broadcastChat(ws *world.State, t packet.ChatType, senderID uint32, senderName, text string) {
	pkt := packet.WriteChatBroadcast(t, senderID, senderName, text)
	ws.ForEach(func(other *world.Player) {
		if !other.Welcomed() {
			return
		}
		other.Session.Send(pkt)
	})
}

// sendSystemMessage delivers server text to one player. The system
// sender is the reserved id 0 with display name "System".
func sendSystemMessage(p *world.Player, text string) {
	p.Session.Send(packet.WriteChatBroadcast(
		packet.ChatSystem, packet.InvalidClientID, "System", text))
}
