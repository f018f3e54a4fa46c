// Package models defines the bulk upload feed document and the per-item results.
//
// The feed is decoded with encoding/xml struct tags. Optional values are pointers so the
// engine can tell an absent element from an empty one, and every item keeps its raw XML
// so results can echo the original record.
//
//	<mrss>
//	  <channel>
//	    <item>
//	      <action>add</action>
//	      <type>1</type>
//	      <name>Launch video</name>
//	      <content flavorParamsId="5">
//	        <urlContentResource url="https://cdn.example.com/launch.mp4"/>
//	      </content>
//	      <media><mediaType>1</mediaType></media>
//	    </item>
//	  </channel>
//	</mrss>
//
// UploadResult is both the engine output and the job ledger row. Job tracks the resume
// offset and counters of a feed processed over several invocations.
package models
