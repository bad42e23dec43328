package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:])
	case "bot":
		return runBot(args[1:])
	case "monitor":
		return runMonitor(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("yt-fetch-bot: video fetch service with chat and REST front ends")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  yt-fetch-bot doctor")
	fmt.Println("  BOT_TOKEN=<token> yt-fetch-bot serve")
	fmt.Println("  yt-fetch-bot monitor")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve     run the REST/stream API (plus the bot when BOT_TOKEN is set)")
	fmt.Println("  bot       run the chat adapter only, no HTTP surface")
	fmt.Println("  monitor   live terminal dashboard over a running API")
	fmt.Println("  doctor    run dependency and filesystem preflight checks")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Configuration comes from the environment (BOT_TOKEN, LISTEN_ADDR,")
	fmt.Println("    DOWNLOADS_DIR, WORKERS, ...)")
	fmt.Println("  - Use --json on doctor for machine-readable output")
}
