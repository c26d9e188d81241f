package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// request builds the moderation request of the invoking interaction
func request(ctx *discord.CommandContext, target *discordgo.User) moderation.Request {
	req := moderation.Request{
		GuildID:   ctx.Interaction.GuildID,
		GuildName: ctx.GuildName(),
		Reason:    ctx.GetStringOption("razon"),
		Duration:  ctx.GetStringOption("duracion"),
	}
	if target != nil {
		req.TargetID = target.ID
	}
	if mod := ctx.User(); mod != nil {
		req.ModeratorID = mod.ID
		req.ModeratorName = mod.Username
	}
	return req
}

// run defers the response and edits it with the embed action returns
func run(ctx *discord.CommandContext, action func(context.Context) *discordgo.MessageEmbed) error {
	if err := ctx.Defer(); err != nil {
		return err
	}

	errors.Go(func() {
		c, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := ctx.EditReplyEmbed(action(c)); err != nil {
			logger.Error(fmt.Sprintf("Error editando respuesta de %s: %v", ctx.Interaction.ApplicationCommandData().Name, err), "CMD-Mod")
		}
	})
	return nil
}

func resultEmbed(title, description string, color int, fields ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
}

func field(name, value string) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return moderation.DefaultReason
	}
	return reason
}
