// Command seed loads the starter character catalog and bootstraps the admin
// account. It only inserts characters that are not already present, so it is
// safe to run repeatedly.
package main

import (
	"context"
	"os"
	"time"

	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/db"
	"github.com/soraleth/wavedex/internal/domain/character"
	"github.com/soraleth/wavedex/internal/observability"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	err := db.Migrate(cfg.DBURL)

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = db.EnsureAdminUser(ctx, pool, cfg)

	if err != nil {
		log.Error("admin bootstrap failed", "err", err)
		os.Exit(1)
	}

	repo := postgres.NewCharactersRepo(pool, nil)

	existing, err := repo.List(ctx)

	if err != nil {
		log.Error("could not list characters", "err", err)
		os.Exit(1)
	}

	have := make(map[string]bool, len(existing))

	for _, c := range existing {
		have[c.Name] = true
	}

	added := 0

	for _, req := range catalog() {
		if have[req.Name] {
			continue
		}

		_, err := repo.Create(ctx, req)

		if err != nil {
			log.Error("could not insert character", "name", req.Name, "err", err)
			os.Exit(1)
		}

		added++
	}

	log.Info("seed complete", "added", added, "total", len(existing)+added)
}

func entry(name, color string, rarity int, weaponType, element, description string) character.CreateCharacterRequest {
	return character.CreateCharacterRequest{
		Name:        name,
		ImageURL:    avatarURL(name, color),
		Rarity:      rarity,
		WeaponType:  weaponType,
		Element:     element,
		Description: &description,
	}
}

func avatarURL(name, color string) string {
	escaped := ""

	for _, r := range name {
		switch r {
		case ' ':
			escaped += "+"
		case '(', ')':
			// dropped, the avatar service renders initials from plain words
		default:
			escaped += string(r)
		}
	}

	return "https://ui-avatars.com/api/?name=" + escaped + "&size=256&background=" + color + "&color=fff&bold=true&font-size=0.4"
}

func catalog() []character.CreateCharacterRequest {
	return []character.CreateCharacterRequest{
		// 5-star characters
		entry("Rover (Havoc)", "8b5cf6", 5, "Sword", "Havoc",
			"The protagonist of Wuthering Waves. A mysterious Resonator with the power to command the Havoc element."),
		entry("Rover (Spectro)", "fbbf24", 5, "Sword", "Spectro",
			"The protagonist of Wuthering Waves in their Spectro form, wielding radiant energy."),
		entry("Jiyan", "10b981", 5, "Broadblade", "Aero",
			"General of the Midnight Rangers, Jiyan is a formidable warrior who commands the wind."),
		entry("Yinlin", "eab308", 5, "Rectifier", "Electro",
			"An agent of the Patroller Association, Yinlin wields electric power against the Tacet Discords."),
		entry("Calcharo", "eab308", 5, "Broadblade", "Electro",
			"Leader of the Ghost Hounds, a lone mercenary with devastating electric strength."),
		entry("Jinhsi", "fbbf24", 5, "Broadblade", "Spectro",
			"Magistrate of Jinzhou, Jinhsi carries deep wisdom and unique Spectro powers."),
		entry("Changli", "ef4444", 5, "Sword", "Fusion",
			"A seasoned counselor able to bend flame with grace and precision."),
		entry("Encore", "ef4444", 5, "Rectifier", "Fusion",
			"A young Resonator bursting with energy and explosive fire powers."),
		entry("Verina", "fbbf24", 5, "Rectifier", "Spectro",
			"A gifted botanist with exceptional healing and support abilities."),
		entry("Lingyang", "3b82f6", 5, "Gauntlets", "Glacio",
			"An energetic lion dancer with fast, acrobatic ice attacks."),
		entry("Shorekeeper", "fbbf24", 5, "Rectifier", "Spectro",
			"Mysterious guardian of the Black Shores with exceptional Spectro healing powers."),
		entry("Xiangli Yao", "eab308", 5, "Gauntlets", "Electro",
			"A brilliant scientist of the Huaxu Academy specializing in electric technology."),
		entry("Zhezhi", "3b82f6", 5, "Rectifier", "Glacio",
			"A talented painter who brings her creations to life with powers of ice."),
		entry("Camellya", "8b5cf6", 5, "Sword", "Havoc",
			"A member of the Fractsidus with wild, unpredictable Havoc powers."),
		entry("Carlotta", "3b82f6", 5, "Pistols", "Glacio",
			"Second daughter of the prestigious Montelli family, elegant and refined, with a mastery of glacial firearms."),

		// 4-star characters
		entry("Yuanwu", "eab308", 4, "Gauntlets", "Electro",
			"A martial arts master who channels electricity to amplify his powerful strikes."),
		entry("Mortefi", "ef4444", 4, "Pistols", "Fusion",
			"A talented scientist and inventor with a mastery of firearms and flame."),
		entry("Aalto", "10b981", 4, "Pistols", "Aero",
			"A cunning information broker who fights with wind and misdirection."),
		entry("Chixia", "ef4444", 4, "Pistols", "Fusion",
			"An enthusiastic Jinzhou patroller with a fiery spirit and blazing pistols."),
		entry("Danjin", "8b5cf6", 4, "Sword", "Havoc",
			"A determined fighter who draws on Havoc power at the cost of her own health."),
		entry("Yangyang", "10b981", 4, "Sword", "Aero",
			"A gentle, caring ranger with wind-based support abilities."),
		entry("Baizhi", "3b82f6", 4, "Rectifier", "Glacio",
			"A calm medical researcher with ice-based healing powers."),
		entry("Sanhua", "3b82f6", 4, "Sword", "Glacio",
			"A loyal bodyguard with elegant, lethal ice techniques."),
		entry("Taoqi", "8b5cf6", 4, "Broadblade", "Havoc",
			"A logistics officer with sturdy Havoc defensive abilities."),
		entry("Youhu", "3b82f6", 4, "Gauntlets", "Glacio",
			"A young priestess with mystic, protective ice powers."),
	}
}
