package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logos-system/ontos/internal/types"
)

var (
	createLabel    string
	createE        float64
	createG        float64
	createT        float64
	createParentID string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "create a node from a trinity vector and label",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, tok, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		trinity := types.NewTrinityVector(createE, createG, createT)
		n, err := svc.CreateNode(tok, createLabel, trinity, types.FractalPosition{}, true, createParentID, nil)
		if err != nil {
			return err
		}

		fmt.Printf("created %s\n  label:  %s\n  position: c=%g+%gi iterations=%d in_set=%v\n  modal:  %v (coherence %.4f)\n",
			n.ID, n.Label, n.Position.CReal, n.Position.CImag, n.Position.Iterations, n.Position.InSet,
			n.Payload["modal_status"], n.Payload["coherence"])
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createLabel, "label", "", "node label (the query text)")
	createCmd.Flags().Float64Var(&createE, "existence", 0, "existence component in [0,1]")
	createCmd.Flags().Float64Var(&createG, "goodness", 0, "goodness component in [0,1]")
	createCmd.Flags().Float64Var(&createT, "truth", 0, "truth component in [0,1]")
	createCmd.Flags().StringVar(&createParentID, "parent", "", "optional parent node id")
	_ = createCmd.MarkFlagRequired("label")
}
