package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/model"
	"github.com/richard-senior/footform/pkg/pipeline"
	"github.com/richard-senior/footform/pkg/rawdata"
)

const usage = `usage: footform [flags] <command>

commands:
  fetch      download and cache the bookmaker odds files
  pipeline   build every table from raw data through the model dataset
  train      train the classifier and write the performance report
  baseline   evaluate the bookmaker's own predictions
  evaluate   write the per match model vs bookmaker comparison
  predict    print outcome probabilities for a fixture (-home, -away)

flags:
`

func main() {
	configFile := flag.String("config", "", "Path to a yaml configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	homeTeam := flag.String("home", "", "Home team name for predict")
	awayTeam := flag.String("away", "", "Away team name for predict")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.SetShowDateTime(true)
	if *debug {
		logger.SetLevel(logger.DEBUG)
		logger.Debug("Debug logging enabled")
	}

	if *configFile != "" {
		if err := pipeline.LoadConfig(*configFile); err != nil {
			logger.Fatal("Failed to load configuration", err)
		}
	}
	if err := pipeline.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create data directories", err)
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "fetch":
		err = runFetch()
	case "pipeline":
		err = runPipeline()
	case "train":
		err = runTrain()
	case "baseline":
		err = runBaseline()
	case "evaluate":
		err = runEvaluate()
	case "predict":
		err = runPredict(*homeTeam, *awayTeam)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", err)
		os.Exit(1)
	}
}

func runFetch() error {
	return rawdata.FetchAll()
}

// runPipeline builds every table in order, leaving a csv artefact after
// each stage and persisting the final tables to sqlite
func runPipeline() error {
	logger.Inform("Building the full match dataset")

	stats, err := rawdata.LoadStats()
	if err != nil {
		return err
	}
	if err := pipeline.WriteTeamStatCSV(pipeline.ProcessedFile("matchdata_base.csv"), stats); err != nil {
		return err
	}

	matches, err := pipeline.Pivot(stats)
	if err != nil {
		return err
	}
	if err := pipeline.WriteMatchCSV(pipeline.ProcessedFile("matchdata_clean.csv"), matches); err != nil {
		return err
	}

	odds, err := rawdata.LoadOdds()
	if err != nil {
		return err
	}
	if err := pipeline.WriteOddsCSV(pipeline.ProcessedFile("all_matches_clean.csv"), odds); err != nil {
		return err
	}

	merged, err := pipeline.MergeOdds(matches, odds)
	if err != nil {
		return err
	}
	if err := pipeline.WriteMatchCSV(pipeline.ProcessedFile("data_merged.csv"), merged); err != nil {
		return err
	}

	teamRows := pipeline.Expand(merged)
	if err := pipeline.WriteTeamMatchCSV(pipeline.ProcessedFile("data_before_engineering.csv"), teamRows); err != nil {
		return err
	}

	rolling := pipeline.BuildRollingFeatures(teamRows)
	if err := pipeline.WriteRollingCSV(pipeline.ProcessedFile("data_after_engineering.csv"), rolling); err != nil {
		return err
	}

	modelRows, err := pipeline.AssembleModelTable(rolling)
	if err != nil {
		return err
	}
	if err := pipeline.WriteModelCSV(pipeline.ProcessedFile(pipeline.ModelDataFile), modelRows); err != nil {
		return err
	}

	if err := persistTables(teamRows, modelRows); err != nil {
		return err
	}

	logger.Highlight("Pipeline complete,", len(modelRows), "matches in the model dataset")
	return nil
}

func persistTables(teamRows []*pipeline.TeamMatchRecord, modelRows []*pipeline.ModelRow) error {
	if err := pipeline.CreateTables(); err != nil {
		return err
	}
	defer pipeline.CloseDatabase()

	batch := make([]pipeline.Persistable, 0, len(teamRows)+len(modelRows))
	for _, r := range teamRows {
		batch = append(batch, r)
	}
	for _, r := range modelRows {
		batch = append(batch, r)
	}
	if err := pipeline.BulkSave(batch); err != nil {
		return err
	}
	logger.Info("persisted", len(batch), "rows to", pipeline.Config.DatabasePath)
	return nil
}

func loadSplitDataset() (*model.Dataset, *model.Dataset, error) {
	data, err := model.LoadDataset(pipeline.ProcessedFile(pipeline.ModelDataFile))
	if err != nil {
		return nil, nil, err
	}
	train, test := data.Split(pipeline.Config.TrainFraction)
	logger.Info("split dataset into", train.Len(), "training and", test.Len(), "test matches")
	return train, test, nil
}

func runTrain() error {
	train, test, err := loadSplitDataset()
	if err != nil {
		return err
	}

	classifier := model.NewSoftmaxClassifier()
	if err := classifier.Train(train); err != nil {
		return err
	}

	trainEval := evalOn(classifier, train)
	testEval := evalOn(classifier, test)
	baseline := model.BaselineEvaluate(test)

	logger.Highlight("test accuracy", testEval.Accuracy, "bookmaker accuracy", baseline.Accuracy)
	if err := model.WriteCoefficients(pipeline.ResultsFile("model_coefficients.txt"), classifier); err != nil {
		return err
	}
	return model.WriteReport(pipeline.ResultsFile("model_report.txt"), trainEval, testEval, baseline)
}

func evalOn(c *model.SoftmaxClassifier, d *model.Dataset) *model.Evaluation {
	probs := make([][]float64, d.Len())
	for i := range probs {
		probs[i] = c.PredictProba(d.X[i])
	}
	return model.Evaluate(probs, d.Y)
}

func runBaseline() error {
	data, err := model.LoadDataset(pipeline.ProcessedFile(pipeline.ModelDataFile))
	if err != nil {
		return err
	}
	eval := model.BaselineEvaluate(data)
	logger.Highlight("bookmaker accuracy over the whole dataset", eval.Accuracy)
	fmt.Print(eval.String())
	return nil
}

func runEvaluate() error {
	train, test, err := loadSplitDataset()
	if err != nil {
		return err
	}

	classifier := model.NewSoftmaxClassifier()
	if err := classifier.Train(train); err != nil {
		return err
	}

	rows := model.Compare(classifier, test)
	return model.WriteComparisonCSV(pipeline.ResultsFile("match_probabilities_comparison.csv"), rows)
}

// runPredict trains on the whole dataset and prints probabilities for
// the most recent stored meeting of the two sides
func runPredict(homeTeam, awayTeam string) error {
	if homeTeam == "" || awayTeam == "" {
		return fmt.Errorf("predict needs both -home and -away")
	}

	home := pipeline.NormalizeTeam(homeTeam)
	away := pipeline.NormalizeTeam(awayTeam)

	defer pipeline.CloseDatabase()
	pattern := pipeline.MatchIDPattern(home, away)
	results, err := pipeline.FindWhere(&pipeline.ModelRow{},
		`match_id LIKE ? ESCAPE '\' ORDER BY match_date DESC LIMIT 1`, pattern)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no stored meeting of %s and %s, run the pipeline first", home, away)
	}
	fixture := results[0].(*pipeline.ModelRow)

	data, err := model.LoadDataset(pipeline.ProcessedFile(pipeline.ModelDataFile))
	if err != nil {
		return err
	}
	classifier := model.NewSoftmaxClassifier()
	if err := classifier.Train(data); err != nil {
		return err
	}

	probs := classifier.PredictProba(fixture.Features())
	bookWin, bookDraw, bookLose := rawdata.ImpliedProbabilities(
		fixture.OddsWin, fixture.OddsDraw, fixture.OddsLose)

	fmt.Printf("%s vs %s (form snapshot from %s)\n",
		home, away, pipeline.FormatDate(fixture.MatchDate))
	fmt.Printf("  model:     home %.3f  draw %.3f  away %.3f\n", probs[2], probs[1], probs[0])
	fmt.Printf("  bookmaker: home %.3f  draw %.3f  away %.3f\n", bookWin, bookDraw, bookLose)
	return nil
}
