package display

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/vcq/errors"
)

// ShouldOutputJSON determines if a command should output JSON based on its --json flag
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	if f := cmd.Flags().Lookup("json"); f != nil {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Fall back to a persistent --json on the root command
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		jsonFlag, _ := cmd.Root().PersistentFlags().GetBool("json")
		return jsonFlag
	}
	return false
}

// OutputJSON marshals v using MarshalJSON and writes it to w
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = w.Write(data)
	return err
}

// OutputYAML marshals v using MarshalYAML and writes it to w
func OutputYAML(w io.Writer, v interface{}) error {
	data, err := MarshalYAML(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	_, err = w.Write(data)
	return err
}
