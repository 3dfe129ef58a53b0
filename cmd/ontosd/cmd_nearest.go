package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logos-system/ontos/internal/types"
)

var (
	nearestE float64
	nearestG float64
	nearestT float64
	nearestK int
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "find the k nodes nearest a trinity vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, tok, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		trinity := types.NewTrinityVector(nearestE, nearestG, nearestT)
		neighbors, err := svc.NearestByTrinity(tok, trinity, nearestK)
		if err != nil {
			return err
		}

		for i, n := range neighbors {
			fmt.Printf("%d. %s  distance=%g\n", i+1, n.ID, n.Distance)
		}
		return nil
	},
}

func init() {
	nearestCmd.Flags().Float64Var(&nearestE, "existence", 0, "existence component in [0,1]")
	nearestCmd.Flags().Float64Var(&nearestG, "goodness", 0, "goodness component in [0,1]")
	nearestCmd.Flags().Float64Var(&nearestT, "truth", 0, "truth component in [0,1]")
	nearestCmd.Flags().IntVar(&nearestK, "k", 5, "number of neighbors to return")
}
