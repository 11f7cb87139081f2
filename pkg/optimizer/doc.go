// Package optimizer provides reference search engines over a
// problem.Problem with integer decision vectors.
//
// NSGA2 ranks candidates by constraint domination and crowding distance and
// reads constraints from the separate constraint channel. MOEAD decomposes
// the objectives along Das-Dennis reference directions and expects
// constraints folded into objectives by the evaluator's inline mode. Each
// engine reports the evaluator mode it needs through Mode.
//
// Both engines are deterministic for a given seed and check ctx only
// between generations, so a batch in flight always completes:
//
//	opt, err := optimizer.New(optimizer.AlgorithmMOEAD, cfg)
//	if err != nil {
//	    return err
//	}
//	eval, err := evaluator.New(cfg, evaluator.WithMode(opt.Mode()))
//	if err != nil {
//	    return err
//	}
//	res, err := opt.Optimize(ctx, problem.New(eval))
package optimizer
