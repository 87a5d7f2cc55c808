package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/hwpkit/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "설정 관리",
	Long: `레이아웃, 저장, 추출 기본값을 담은 설정 파일을 다룹니다.

파일 위치는 --config, $HWPKIT_CONFIG, ~/.hwpkit/config.yaml 순으로 정합니다.
확장자가 .toml이면 TOML, 그 밖에는 YAML로 읽고 씁니다.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "적용 중인 설정 표시",
	Long: `파일 값에 HWPKIT_DEBUG, HWPKIT_PARTIAL_POLICY 재정의를 적용한 결과를 표시합니다.
파일이 없으면 기본값입니다.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		return showSettings(cmd.OutOrStdout(), loader)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "기본 설정 파일 생성",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		if err := loader.Init(configForce); err != nil {
			return fmt.Errorf("%w (덮어쓰려면 --force)", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okColor.Sprint("생성됨"), loader.ConfigPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "설정 값 변경",
	Long:  "파일에 값 하나를 기록합니다. ${VAR} 참조는 치환하지 않고 그대로 둡니다.\n\n" + keyHelp(),
	Example: `  hwpkit config set layout.partial_policy paragraph
  hwpkit config set writer.capabilities.bin_data true`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(config.Keys))
		for _, k := range config.Keys {
			names = append(names, strings.TrimSuffix(k.Name, "<기능>"))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		cfg, err := loader.LoadRaw()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := loader.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "설정 파일 경로 표시",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "기존 설정 파일 덮어쓰기")

	configCmd.AddCommand(configShowCmd, configInitCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func keyHelp() string {
	var b strings.Builder
	b.WriteString("키:\n")
	for _, k := range config.Keys {
		fmt.Fprintf(&b, "  %-30s %s\n", k.Name, k.Help)
	}
	return b.String()
}

// showSettings prints the effective settings as YAML and the override table.
func showSettings(w io.Writer, loader *config.Loader) error {
	source := loader.ConfigPath()
	if !loader.Exists() {
		source += " (없음, 기본값)"
	}
	fmt.Fprintf(w, "# %s\n", source)

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))

	tw := newTable(w, "환경 변수")
	tw.AppendHeader(table.Row{"이름", "값"})
	for _, key := range []string{config.EnvConfigPath, config.EnvDebug, config.EnvPartialPolicy} {
		value, ok := os.LookupEnv(key)
		if !ok {
			value = "-"
		}
		tw.AppendRow(table.Row{key, value})
	}
	tw.Render()
	return nil
}
