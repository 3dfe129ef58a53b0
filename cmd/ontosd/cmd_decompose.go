package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	decomposeID           string
	decomposePieces       int
	decomposePerturbation float64
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "decompose a node into perturbed, linked sibling pieces",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, tok, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		ids, err := svc.Decompose(tok, decomposeID, decomposePieces, decomposePerturbation)
		if err != nil {
			return err
		}

		for i, id := range ids {
			fmt.Printf("%d. %s\n", i+1, id)
		}
		return nil
	},
}

func init() {
	decomposeCmd.Flags().StringVar(&decomposeID, "id", "", "source node id")
	decomposeCmd.Flags().IntVar(&decomposePieces, "pieces", 3, "number of pieces to create")
	decomposeCmd.Flags().Float64Var(&decomposePerturbation, "perturbation", 0.01, "perturbation magnitude in [0,1]")
	_ = decomposeCmd.MarkFlagRequired("id")
}
