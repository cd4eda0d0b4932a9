package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/aws-cost-dashboard-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
     ___        ______     ____           _
    / \ \      / / ___|   / ___|___  ___| |_
   / _ \ \ /\ / /\___ \  | |   / _ \/ __| __|
  / ___ \ V  V /  ___) | | |__| (_) \__ \ |_
 /_/   \_\_/\_/  |____/   \____\___/|___/\__|
        ____            _     _                         _
       |  _ \  __ _ ___| |__ | |__   ___   __ _ _ __ __| |
       | | | |/ _' / __| '_ \| '_ \ / _ \ / _' | '__/ _' |
       | |_| | (_| \__ \ | | | |_) | (_) | (_| | | | (_| |
       |____/ \__,_|___/_| |_|_.__/ \___/ \__,_|_|  \__,_|
        `
	orange := color.New(color.FgYellow, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(orange(banner))
	fmt.Println(blue(fmt.Sprintf("AWS Cost Dashboard CLI (v%s)", version.FormatVersion())))
}

// notifyNewVersion mostra o aviso de atualização se a verificação já terminou.
func notifyNewVersion(latest <-chan string) {
	select {
	case v, ok := <-latest:
		if !ok || v == "" {
			return
		}
		pterm.Warning.Printfln("A new version of AWS Cost Dashboard is available: %s", v)
		pterm.Info.Println("Please update using: go install github.com/diillson/aws-cost-dashboard-go/cmd/aws-cost-dashboard@latest")
	default:
	}
}
