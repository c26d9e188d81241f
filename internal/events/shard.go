package events

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterShardEvents logs gateway connection changes
func RegisterShardEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnConnect(onShardConnect)
	client.EventHandler.OnDisconnect(onShardDisconnect)
	client.EventHandler.OnResumed(onShardResumed)
}

func onShardConnect(s *discordgo.Session, event *discordgo.Connect) {
	logger.Info(fmt.Sprintf("🔗 Shard %d/%d conectado al gateway.", s.ShardID, s.ShardCount), "Shard")
}

func onShardDisconnect(s *discordgo.Session, event *discordgo.Disconnect) {
	logger.Warn(fmt.Sprintf("🔌 Shard %d desconectado.", s.ShardID), "Shard")
}

func onShardResumed(s *discordgo.Session, event *discordgo.Resumed) {
	logger.Success(fmt.Sprintf("✅ Shard %d reanudado.", s.ShardID), "Shard")
}
