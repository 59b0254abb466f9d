package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "help [command]",
		Short:             "Show comprehensive help for daybook",
		Long:              `Display an overview of every command, or the full help of one command.`,
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil || target == nil {
					return fmt.Errorf("unknown help topic %q", args)
				}
				return target.Help()
			}
			showCustomHelp(cmd.OutOrStdout())
			return nil
		},
	}
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
     _             _                 _
  __| | __ _ _   _| |__   ___   ___ | | __
 / _' |/ _' | | | | '_ \ / _ \ / _ \| |/ /
| (_| | (_| | |_| | |_) | (_) | (_) |   <
 \__,_|\__,_|\__, |_.__/ \___/ \___/|_|\_\
             |___/

daybook - tasks, calendar and notes

COMMANDS:

  task add <title>        Create a task with smart parsing (no title opens the wizard)
    -d, --desc            Description
    -t, --tags            Comma-separated tags
    -p, --priority        P1|P2|P3 (default P2)
    -s, --status          todo|in-progress|done
    --due                 Due date (today, tomorrow, dd/mm/yyyy, 3 days, 2w)
    --every               daily|weekly|monthly

    Smart syntax:
      #tag1,tag2    Tags
      +P1           Priority (also +high, +1)
      due:tomorrow  Due date
      every:weekly  Recurrence label

    Example:
      daybook task add "Pay rent #home +P1 due:tomorrow every:monthly"

  task ls                 List tasks (--status, --priority, --tags, --search, --board, --json)
  task today              Overdue and today's open tasks
  task show <id>          Show one task
  task edit <id>          Change fields given as flags, or open the editor
  task done|start|reopen <id>
  task rm <id>

  event add <title>       --start, --end, --location, --desc, --tags, --color, --every
  event ls                --week, --month, --from, --to, --search, --json
  event show|edit|rm <id>

  note add [title]        --content (- for stdin), --tags, --pin
  note ls                 Pinned first, newest first (--search, --tags, --json)
  note show <id>
  note edit <id>          Editor with autosave, or --title/--content/--tags
  note pin <id>           Toggle pinning
  note rm <id>

  search <query>          Search all collections (--limit, --json)
  dashboard               Today's tasks, this week's events, recent notes, stats
  calendar [month|week|day]  --date
  settings show
  settings set key=value  theme, startPage, weekStartsOn, timeFormat, focusMode

  export [-o file]        JSON backup
  import <file>           Replace everything with a backup
  reset [--yes]           Delete everything

  version                 Print version information
  help [command]          Show this help or one command's help

Ids can be shortened to any unique prefix.

GLOBAL FLAGS:
  --config <file>         Config file (default ~/.daybook/config.yaml)
  --backend <name>        sqlite|files|redis|memory
  --data-dir <dir>        Where data and config live
  --log-level <level>     debug|info|warn|error

`)
}
