// Package game is the ebiten front end: a colour picker, the board, and a
// status line. Game rules and the bot live behind match.Match.
package game

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"shadowchess/bots"
	"shadowchess/config"
	"shadowchess/match"
)

const (
	squareSize   = 80
	boardOffsetX = 0
	boardOffsetY = 40
	screenWidth  = squareSize * 8
	screenHeight = squareSize*8 + 80

	btnWidth  = 200
	btnHeight = 60
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	selectColor = color.RGBA{246, 246, 105, 160}
	targetColor = color.RGBA{106, 135, 77, 160}
	lastColor   = color.RGBA{205, 210, 106, 120}
	checkColor  = color.RGBA{220, 40, 40, 150}
	threatColor = color.RGBA{230, 120, 40, 170}
	whiteTile   = color.RGBA{245, 245, 245, 255}
	blackTile   = color.RGBA{40, 40, 40, 255}
)

type Game struct {
	cfg config.Config
	log zerolog.Logger

	match       *match.Match
	gameStarted bool
	botNames    []string
	botIndex    int
	botBusy     atomic.Bool
	lastErr     string

	ctx    context.Context
	cancel context.CancelFunc

	squares  [2]*ebiten.Image
	marks    map[color.RGBA]*ebiten.Image
	pieces   map[chess.Piece]*ebiten.Image
	whiteBtn *ebiten.Image
	blackBtn *ebiten.Image
}

func New(cfg config.Config, log zerolog.Logger) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:      cfg,
		log:      log,
		botNames: bots.Names(),
		ctx:      ctx,
		cancel:   cancel,
		marks:    make(map[color.RGBA]*ebiten.Image),
		pieces:   make(map[chess.Piece]*ebiten.Image),
	}
	for i, name := range g.botNames {
		if name == cfg.Bot {
			g.botIndex = i
		}
	}
	g.squares[0] = filled(squareSize, squareSize, lightSquare)
	g.squares[1] = filled(squareSize, squareSize, darkSquare)
	for _, c := range []color.RGBA{selectColor, targetColor, lastColor, checkColor, threatColor} {
		g.marks[c] = filled(squareSize, squareSize, c)
	}

	// Кнопки выбора цвета
	g.whiteBtn = filled(btnWidth, btnHeight, color.RGBA{200, 200, 200, 255})
	ebitenutil.DebugPrintAt(g.whiteBtn, "Play white", 65, 22)
	g.blackBtn = filled(btnWidth, btnHeight, color.RGBA{50, 50, 50, 255})
	ebitenutil.DebugPrintAt(g.blackBtn, "Play black", 65, 22)
	g.loadPieceImages()
	return g
}

// Size returns the window size the game lays itself out for.
func (g *Game) Size() (int, int) {
	return screenWidth, screenHeight
}

// Close stops any bot goroutine from applying further moves.
func (g *Game) Close() {
	g.cancel()
}

func filled(w, h int, c color.Color) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	img.Fill(c)
	return img
}

// Фигуры рисуются буквой на плашке, без ассетов.
func (g *Game) loadPieceImages() {
	all := []chess.Piece{
		chess.WhiteKing, chess.WhiteQueen, chess.WhiteRook,
		chess.WhiteBishop, chess.WhiteKnight, chess.WhitePawn,
		chess.BlackKing, chess.BlackQueen, chess.BlackRook,
		chess.BlackBishop, chess.BlackKnight, chess.BlackPawn,
	}
	const tile = squareSize * 3 / 4
	for _, piece := range all {
		tileColor, letterColor := color.Color(whiteTile), color.Color(blackTile)
		if piece.Color() == chess.Black {
			tileColor, letterColor = blackTile, whiteTile
		}

		letter := ebiten.NewImage(8, 16)
		ebitenutil.DebugPrintAt(letter, strings.ToUpper(piece.Type().String()), 1, 0)

		img := ebiten.NewImage(squareSize, squareSize)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate((squareSize-tile)/2, (squareSize-tile)/2)
		img.DrawImage(filled(tile, tile, tileColor), op)

		scale := float64(tile) / 2 / 16
		op = &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(squareSize/2-4*scale, squareSize/2-8*scale)
		op.ColorScale.ScaleWithColor(letterColor)
		img.DrawImage(letter, op)

		g.pieces[piece] = img
	}
}

func (g *Game) Update() error {
	if !g.gameStarted {
		g.updateColorChoice()
		return nil
	}

	st := g.match.Status()
	if st.PromotionPending {
		g.updatePromotion()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.nextBot()
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		g.report(g.match.Undo())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.match.Reset()
		g.lastErr = ""
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if sq, ok := g.squareAt(ebiten.CursorPosition()); ok {
			g.click(st, sq)
		}
	}

	if g.match.BotToMove() && g.botBusy.CompareAndSwap(false, true) {
		go g.makeBotMove()
	}
	return nil
}

func (g *Game) updateColorChoice() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.startGame(g.cfg.Human())
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	btnY := screenHeight/2 + 40
	if y <= btnY || y >= btnY+btnHeight {
		return
	}
	if x > screenWidth/2-btnWidth-20 && x < screenWidth/2-20 {
		g.startGame(chess.White)
	} else if x > screenWidth/2+20 && x < screenWidth/2+20+btnWidth {
		g.startGame(chess.Black)
	}
}

func (g *Game) startGame(human chess.Color) {
	pos, err := g.cfg.StartPosition()
	if err != nil {
		g.lastErr = err.Error()
		return
	}
	bot, err := bots.New(g.botNames[g.botIndex], g.cfg.BotSettings(g.log))
	if err != nil {
		g.lastErr = err.Error()
		return
	}
	g.match = match.New(pos, bot, human, g.log)
	g.gameStarted = true
	g.lastErr = ""
	g.log.Info().Str("human", human.Name()).Str("bot", bot.Name()).Msg("game started")
}

func (g *Game) nextBot() {
	g.botIndex = (g.botIndex + 1) % len(g.botNames)
	bot, err := bots.New(g.botNames[g.botIndex], g.cfg.BotSettings(g.log))
	if err != nil {
		g.lastErr = err.Error()
		return
	}
	g.match.SetBot(bot)
}

func (g *Game) updatePromotion() {
	keys := map[ebiten.Key]chess.PieceType{
		ebiten.KeyQ: chess.Queen,
		ebiten.KeyR: chess.Rook,
		ebiten.KeyB: chess.Bishop,
		ebiten.KeyN: chess.Knight,
	}
	for key, pt := range keys {
		if inpututil.IsKeyJustPressed(key) {
			_, err := g.match.Promote(pt)
			g.report(err)
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.match.CancelPromotion()
	}
}

func (g *Game) click(st match.Status, sq chess.Square) {
	if st.HasSelection {
		for _, target := range st.Targets {
			if target == sq {
				_, err := g.match.MoveTo(sq)
				g.report(err)
				return
			}
		}
	}
	_, err := g.match.Select(sq)
	g.report(err)
}

func (g *Game) report(err error) {
	if err == nil {
		g.lastErr = ""
		return
	}
	g.lastErr = err.Error()
}

func (g *Game) makeBotMove() {
	defer g.botBusy.Store(false)

	// Небольшая задержка, чтобы ход бота был заметен.
	select {
	case <-time.After(g.cfg.BotDelay):
	case <-g.ctx.Done():
		return
	}
	if _, err := g.match.BotMove(g.ctx); err != nil {
		g.log.Debug().Err(err).Msg("bot move skipped")
	}
}

// squareAt maps window coordinates to a board square. The human's side is
// always at the bottom.
func (g *Game) squareAt(x, y int) (chess.Square, bool) {
	x -= boardOffsetX
	y -= boardOffsetY
	if x < 0 || x >= squareSize*8 || y < 0 || y >= squareSize*8 {
		return 0, false
	}
	file, rank := x/squareSize, 7-y/squareSize
	if g.match != nil && g.match.Human() == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return chess.NewSquare(chess.File(file), chess.Rank(rank)), true
}

// squareOrigin is the inverse of squareAt.
func (g *Game) squareOrigin(sq chess.Square) (float64, float64) {
	file, rank := int(sq.File()), int(sq.Rank())
	if g.match.Human() == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return float64(file*squareSize + boardOffsetX), float64((7-rank)*squareSize + boardOffsetY)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.gameStarted {
		g.drawColorChoice(screen)
		return
	}

	st := g.match.Status()
	board := g.match.Board()

	for sq := chess.A1; sq <= chess.H8; sq++ {
		x, y := g.squareOrigin(sq)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x, y)
		screen.DrawImage(g.squares[(int(sq.File())+int(sq.Rank())+1)%2], op)
	}

	if st.LastMove != nil {
		g.mark(screen, st.LastMove.Move.S1(), lastColor)
		g.mark(screen, st.LastMove.Move.S2(), lastColor)
	}
	if st.CheckSquare != chess.NoSquare {
		g.mark(screen, st.CheckSquare, checkColor)
	}
	if st.HasSelection {
		// Выбранная фигура под боем подсвечивается отдельно.
		if st.SelectedAttacked {
			g.mark(screen, st.Selected, threatColor)
		} else {
			g.mark(screen, st.Selected, selectColor)
		}
		for _, sq := range st.Targets {
			g.mark(screen, sq, targetColor)
		}
	}

	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if img := g.pieces[piece]; img != nil {
			x, y := g.squareOrigin(sq)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x, y)
			screen.DrawImage(img, op)
		}
	}

	// Статус игры
	ebitenutil.DebugPrintAt(screen, st.Message(), 10, 12)
	ebitenutil.DebugPrintAt(screen, "Bot: "+st.BotName, screenWidth-220, 12)
	footer := "B: next bot  U: undo  R: restart"
	if g.lastErr != "" {
		footer = g.lastErr
	}
	ebitenutil.DebugPrintAt(screen, footer, 10, boardOffsetY+squareSize*8+6)
	ebitenutil.DebugPrintAt(screen, st.RecentMoves(10), 10, boardOffsetY+squareSize*8+24)
	if st.GameOver {
		ebitenutil.DebugPrintAt(screen, "Result: "+st.Result, screenWidth-120, boardOffsetY+squareSize*8+6)
	}
}

func (g *Game) mark(screen *ebiten.Image, sq chess.Square, c color.RGBA) {
	x, y := g.squareOrigin(sq)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	screen.DrawImage(g.marks[c], op)
}

func (g *Game) drawColorChoice(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Shadow Chess", screenWidth/2-36, screenHeight/2-80)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Opponent: %s (depth %d)", g.botNames[g.botIndex], g.cfg.Depth),
		screenWidth/2-100, screenHeight/2-50)
	ebitenutil.DebugPrintAt(screen, "Choose your colour, or Enter for "+g.cfg.HumanColor, screenWidth/2-130, screenHeight/2)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(screenWidth/2-btnWidth-20), float64(screenHeight/2+40))
	screen.DrawImage(g.whiteBtn, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(screenWidth/2+20), float64(screenHeight/2+40))
	screen.DrawImage(g.blackBtn, op)

	if g.lastErr != "" {
		ebitenutil.DebugPrintAt(screen, g.lastErr, 10, screenHeight-30)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
