package utils

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const maxListedRoles = 10

var importantPermissions = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrador"},
	{discordgo.PermissionManageGuild, "Gestionar servidor"},
	{discordgo.PermissionManageRoles, "Gestionar roles"},
	{discordgo.PermissionManageChannels, "Gestionar canales"},
	{discordgo.PermissionManageMessages, "Gestionar mensajes"},
	{discordgo.PermissionKickMembers, "Expulsar miembros"},
	{discordgo.PermissionBanMembers, "Banear miembros"},
	{discordgo.PermissionModerateMembers, "Aislar miembros"},
	{discordgo.PermissionMentionEveryone, "Mencionar @everyone"},
}

// createUserInfoCommand creates the /utils userinfo subcommand
func createUserInfoCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"userinfo",
		"Muestra información de un usuario",
		"utils",
		h.userInfo,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del que ver la información",
			Required:    false,
		},
	).InGuild()
}

func (h *handlers) userInfo(ctx *discord.CommandContext) error {
	user, member := ctx.TargetOrSelf("usuario")
	rec, _ := h.State.UserRecord(user.ID, ctx.Interaction.GuildID)
	return ctx.ReplyEmbed(userInfoEmbed(user, member, rec))
}

// permissionNames lists the moderation relevant permissions in perms
func permissionNames(perms int64) []string {
	if perms&discordgo.PermissionAdministrator != 0 {
		return []string{"Administrador"}
	}
	var names []string
	for _, p := range importantPermissions {
		if perms&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	return names
}

func roleList(roles []string) string {
	if len(roles) == 0 {
		return "Ninguno"
	}
	shown := roles
	if len(shown) > maxListedRoles {
		shown = shown[:maxListedRoles]
	}
	mentions := make([]string, len(shown))
	for i, id := range shown {
		mentions[i] = "<@&" + id + ">"
	}
	out := strings.Join(mentions, " ")
	if rest := len(roles) - len(shown); rest > 0 {
		out += fmt.Sprintf(" y %d más", rest)
	}
	return out
}

func userInfoEmbed(user *discordgo.User, member *discordgo.Member, rec *models.UserRecord) *discordgo.MessageEmbed {
	created := "Desconocido"
	if t, ok := render.SnowflakeTime(user.ID); ok {
		created = render.Timestamp(t, "D")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "🆔 ID", Value: user.ID, Inline: true},
		{Name: "📅 Cuenta creada", Value: created, Inline: true},
	}
	if user.Bot {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🤖 Bot", Value: "Sí", Inline: true})
	}

	if member != nil {
		if !member.JoinedAt.IsZero() {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "📥 Se unió", Value: render.Timestamp(member.JoinedAt, "D"), Inline: true,
			})
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("🎭 Roles (%d)", len(member.Roles)),
			Value: roleList(member.Roles),
		})
		if perms := permissionNames(member.Permissions); len(perms) > 0 {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "🔑 Permisos importantes", Value: strings.Join(perms, ", "),
			})
		}
	}

	if rec != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "📈 Niveles",
			Value: fmt.Sprintf("Nivel **%d** • **%s** XP\n💬 %s mensajes • ⚠️ %d advertencias",
				rec.Level, render.Number(rec.XP), render.Number(rec.MessagesSent), len(rec.Warnings)),
		})
	}

	return &discordgo.MessageEmbed{
		Title:     "👤 " + render.DisplayName(member, user),
		Color:     render.ColorPurple,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
}
