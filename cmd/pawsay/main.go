package main

import (
	"context"
	"fmt"
	"os"
	petModel "pawsay/internal/domain/pet/model"
	"pawsay/internal/domain/translation/client"
	"pawsay/internal/domain/translation/service"
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/uploader"
	"pawsay/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// petFlags 命令行描述的宠物档案
type petFlags struct {
	species     string
	name        string
	breed       string
	age         string
	personality string
}

var pet petFlags

func main() {
	rootCmd := &cobra.Command{
		Use:           "pawsay",
		Short:         "Translate what your cat or dog is saying",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&pet.species, "species", "cat", "cat | dog")
	rootCmd.PersistentFlags().StringVar(&pet.name, "name", "", "pet name (enables profile context)")
	rootCmd.PersistentFlags().StringVar(&pet.breed, "breed", "", "pet breed")
	rootCmd.PersistentFlags().StringVar(&pet.age, "age", "", "pet age")
	rootCmd.PersistentFlags().StringVar(&pet.personality, "personality", "", "pet personality")

	rootCmd.AddCommand(listenCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pawsay", version)
		},
	}
}

// profile 只在给了名字时构造档案
func (f petFlags) profile() (petModel.Species, *petModel.PetProfile, error) {
	species, ok := petModel.ParseSpecies(f.species)
	if !ok {
		return "", nil, fmt.Errorf("unknown species %q", f.species)
	}
	if f.name == "" {
		return species, nil, nil
	}
	return species, &petModel.PetProfile{
		OwnerID:     "cli",
		Species:     species,
		Name:        f.name,
		Breed:       f.breed,
		Age:         f.age,
		Personality: f.personality,
	}, nil
}

// bootstrap 加载配置并创建翻译服务
func bootstrap(ctx context.Context) (config.Config, *zap.Logger, service.TranslationService, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	log, err := logger.Init(cfg.App.Env, false)
	if err != nil {
		return cfg, nil, nil, err
	}
	gen, err := client.NewGenAIClient(ctx, cfg.Gemini)
	if err != nil {
		return cfg, log, nil, fmt.Errorf("%w (set GEMINI_API_KEY)", err)
	}
	images := uploader.DataURIStore{}
	return cfg, log, service.NewTranslationService(gen, images, cfg.Gemini.Timeout, log.Named("translation")), nil
}
