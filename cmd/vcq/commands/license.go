package commands

import (
	"io"

	"github.com/spf13/cobra"
)

const licenseText = `vcq - vCard query utility for mutt
Copyright (C) 2003  Andrew Hsu

This program is free software; you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation; either version 2 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301  USA
`

func newLicenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "license",
		Short:       "Display copyright and license",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfig: configOptional},
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLicense(cmd.OutOrStdout())
		},
	}
}

func printLicense(w io.Writer) error {
	_, err := io.WriteString(w, licenseText)
	return err
}
