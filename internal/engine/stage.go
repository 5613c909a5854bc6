package engine

// Stage is the current discrete state of the game flow.
type Stage string

const (
	StageBegin              Stage = "Begin"
	StageGameThemes         Stage = "GameThemes"
	StageRound              Stage = "Round"
	StageRoundThemes        Stage = "RoundThemes"
	StageRoundTable         Stage = "RoundTable"
	StageScore              Stage = "Score"
	StageQuestion           Stage = "Question"
	StageRightAnswer        Stage = "RightAnswer"
	StageRightAnswerProceed Stage = "RightAnswerProceed"
	StageQuestionPostInfo   Stage = "QuestionPostInfo"
	StageEndQuestion        Stage = "EndQuestion"
	StageFinalThemes        Stage = "FinalThemes"
	StageWaitDelete         Stage = "WaitDelete"
	StageAfterDelete        Stage = "AfterDelete"
	StageFinalQuestion      Stage = "FinalQuestion"
	StageFinalThink         Stage = "FinalThink"
	StageRightFinalAnswer   Stage = "RightFinalAnswer"
	StageAfterFinalThink    Stage = "AfterFinalThink"
	StageEnd                Stage = "End"
)

// Stages lists every stage in protocol order.
var Stages = []Stage{
	StageBegin,
	StageGameThemes,
	StageRound,
	StageRoundThemes,
	StageRoundTable,
	StageScore,
	StageQuestion,
	StageRightAnswer,
	StageRightAnswerProceed,
	StageQuestionPostInfo,
	StageEndQuestion,
	StageFinalThemes,
	StageWaitDelete,
	StageAfterDelete,
	StageFinalQuestion,
	StageFinalThink,
	StageRightFinalAnswer,
	StageAfterFinalThink,
	StageEnd,
}

func (s Stage) String() string {
	return string(s)
}
