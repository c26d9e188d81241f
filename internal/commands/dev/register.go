// Package dev provides maintenance commands published only to the dev guild
package dev

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const taskTimeout = 30 * time.Second

// Tasks are the maintenance jobs the dev commands trigger by hand
type Tasks struct {
	Flush func(ctx context.Context) error
	Sweep func(ctx context.Context) int
}

// Register registers /dev flush and /dev sweep in the dev guild
func Register(client *discord.ExtendedClient, tasks Tasks, cfg *config.Config) {
	d := &dev{tasks: tasks, cfg: cfg}

	group := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		discord.NewCommand("flush", "Guarda los datos ahora (Solo desarrolladores)", "dev", d.flush).AsDev(),
		discord.NewCommand("sweep", "Retira ahora los castigos vencidos (Solo desarrolladores)", "dev", d.sweep).AsDev(),
	)
	client.CommandHandler.AddDevCommand(group)
}

type dev struct {
	tasks Tasks
	cfg   *config.Config
}

// guard rejects users outside the developer list
func (d *dev) guard(ctx *discord.CommandContext) bool {
	if d.cfg != nil && d.cfg.IsDeveloper(ctx.User().ID) {
		return true
	}
	_ = ctx.ReplyEphemeralEmbed(render.Error("Acceso Denegado", "Este comando solo está disponible para desarrolladores."))
	return false
}

func (d *dev) background(ctx *discord.CommandContext, job func(context.Context) *discordgo.MessageEmbed) error {
	if err := ctx.Defer(); err != nil {
		return err
	}
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		if err := ctx.EditReplyEmbed(job(c)); err != nil {
			logger.Error(fmt.Sprintf("Error editando respuesta: %v", err), "CMD-Dev")
		}
	}()
	return nil
}

func (d *dev) flush(ctx *discord.CommandContext) error {
	if !d.guard(ctx) {
		return nil
	}
	if d.tasks.Flush == nil {
		return ctx.ReplyEphemeralEmbed(render.Error("No disponible", "Esta tarea no está configurada."))
	}
	return d.background(ctx, func(c context.Context) *discordgo.MessageEmbed {
		start := time.Now()
		if err := d.tasks.Flush(c); err != nil {
			return render.Error("Error al guardar", err.Error())
		}
		return doneEmbed("💾 Datos guardados", fmt.Sprintf("Guardado completado en %s.", time.Since(start).Round(time.Millisecond)))
	})
}

func (d *dev) sweep(ctx *discord.CommandContext) error {
	if !d.guard(ctx) {
		return nil
	}
	if d.tasks.Sweep == nil {
		return ctx.ReplyEphemeralEmbed(render.Error("No disponible", "Esta tarea no está configurada."))
	}
	return d.background(ctx, func(c context.Context) *discordgo.MessageEmbed {
		n := d.tasks.Sweep(c)
		return doneEmbed("🧹 Revisión completada", fmt.Sprintf("Castigos vencidos retirados: **%d**", n))
	})
}

func doneEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       render.ColorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
}
